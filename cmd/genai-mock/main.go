// genai-mock serves canned generateContent replies for local development so
// the server can run without a live model endpoint. Replies are selected by
// sniffing the incoming prompt for the request kind.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
)

type mockReply struct {
	Payload   json.RawMessage `json:"payload"`
	Citations []mockCitation  `json:"citations,omitempty"`
}

type mockCitation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type envelope struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

type groundingChunk struct {
	Web struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web"`
}

func main() {
	var (
		port = flag.String("port", "9098", "port to listen on")
		data = flag.String("data", "mock-genai.json", "path to mock data file")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var replies map[string]mockReply
	if err := json.Unmarshal(file, &replies); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1beta/models/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}

		var prompt strings.Builder
		for _, c := range req.Contents {
			for _, p := range c.Parts {
				prompt.WriteString(p.Text)
			}
		}

		reply, ok := replies[kindOf(prompt.String())]
		if !ok {
			http.Error(w, "no mock reply for prompt kind", http.StatusNotFound)
			return
		}

		var cand candidate
		cand.Content.Parts = []struct {
			Text string `json:"text"`
		}{{Text: string(reply.Payload)}}
		if len(reply.Citations) > 0 {
			md := &groundingMetadata{}
			for _, c := range reply.Citations {
				var chunk groundingChunk
				chunk.Web.URI = c.URI
				chunk.Web.Title = c.Title
				md.GroundingChunks = append(md.GroundingChunks, chunk)
			}
			cand.GroundingMetadata = md
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(envelope{Candidates: []candidate{cand}}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	log.Printf("mock genai listening on %s with %d reply kinds", addr, len(replies))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// kindOf maps a prompt to the mock data key it should answer with.
func kindOf(prompt string) string {
	switch {
	case strings.Contains(prompt, "critical sweep"):
		return "sweep"
	case strings.Contains(prompt, "trending movies"):
		return "trending"
	default:
		return "showtimes"
	}
}
