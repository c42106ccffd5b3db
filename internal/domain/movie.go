package domain

// MetadataRecord holds the canonical per-title fields returned by the
// metadata detail endpoint. Identity is the title string as echoed back by
// the upstream source, not a stable numeric id.
type MetadataRecord struct {
	Title      string `json:"title"`
	Year       string `json:"year"`
	Rated      string `json:"rated,omitempty"`
	Released   string `json:"released,omitempty"`
	Runtime    string `json:"runtime,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Director   string `json:"director,omitempty"`
	Writer     string `json:"writer,omitempty"`
	Actors     string `json:"actors,omitempty"`
	Plot       string `json:"plot,omitempty"`
	Awards     string `json:"awards,omitempty"`
	PosterURL  string `json:"poster,omitempty"`
	Rating     string `json:"imdbRating,omitempty"`
	Metascore  string `json:"metascore,omitempty"`
	BoxOffice  string `json:"boxOffice,omitempty"`
	Production string `json:"production,omitempty"`
}

// CandidateSuggestion is a lightweight shortlist entry used only for
// autocomplete and "did you mean" fallbacks.
type CandidateSuggestion struct {
	Title      string `json:"title"`
	Year       string `json:"year"`
	ExternalID string `json:"id"`
	PosterURL  string `json:"poster,omitempty"`
}
