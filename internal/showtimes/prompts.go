package showtimes

import (
	"fmt"

	"github.com/cinesaver/cinesaver/internal/domain"
)

// queryVariant selects which prompt template a search maps to.
type queryVariant int

const (
	variantMovieAndTheater queryVariant = iota
	variantMovieOnly
	variantTheaterOnly
	variantCityOnly
)

func variantFor(q domain.SearchQuery) queryVariant {
	switch {
	case q.MovieName != "" && q.TheaterName != "":
		return variantMovieAndTheater
	case q.MovieName != "":
		return variantMovieOnly
	case q.TheaterName != "":
		return variantTheaterOnly
	default:
		return variantCityOnly
	}
}

// promptSuffix is appended to every variant: it pins the output contract the
// response schema alone cannot express.
const promptSuffix = ` Return a list of theaters/screenings with their addresses, specific showtimes, and the current ticket price in the local currency.` +
	` If multiple movies are playing at one location (like in a mall), include each movie as a separate entry.` +
	` The "name" field should be formatted as "Movie Title @ Theater/Mall Name".` +
	` Only include results that are in the specified time range. Provide currency symbol (e.g., $, £, €, ₹).`

func locationPart(city string) string {
	if city == "" {
		return "near the user's likely location"
	}
	return fmt.Sprintf("specifically in the city of %q and its surrounding suburbs", city)
}

func yearContext(year int) string {
	return fmt.Sprintf("in the current year %d", year)
}

// buildPrompt dispatches to the pure template for the query's variant.
func buildPrompt(q domain.SearchQuery, year int) string {
	var body string
	switch variantFor(q) {
	case variantMovieAndTheater:
		body = movieAndTheaterPrompt(q, year)
	case variantMovieOnly:
		body = movieOnlyPrompt(q, year)
	case variantTheaterOnly:
		body = theaterOnlyPrompt(q, year)
	default:
		body = cityOnlyPrompt(q, year)
	}
	return body + promptSuffix
}

func movieAndTheaterPrompt(q domain.SearchQuery, year int) string {
	return fmt.Sprintf(
		"Find movie ticket prices and showtimes for the movie %q %s at the specific theater or mall venue named %q %s today between %s and %s.",
		q.MovieName, yearContext(year), q.TheaterName, locationPart(q.City), q.StartTimeOfDay, q.EndTimeOfDay,
	)
}

func movieOnlyPrompt(q domain.SearchQuery, year int) string {
	return fmt.Sprintf(
		"Exhaustively find all movie ticket prices and showtimes for %q %s %s today between %s and %s."+
			" You MUST include results from EVERY available theater: major chains (AMC, Regal, Cinemark, Cineplex, VOX, PVR),"+
			" boutique theaters (Alamo Drafthouse, Everyman, Curzon), independent local cinemas, and every multiplex located within malls."+
			" Do not omit any theaters in or near %q. Scan all ticketing platforms like Fandango, MovieTickets, and direct theater sites.",
		q.MovieName, yearContext(year), locationPart(q.City), q.StartTimeOfDay, q.EndTimeOfDay, q.City,
	)
}

func theaterOnlyPrompt(q domain.SearchQuery, year int) string {
	return fmt.Sprintf(
		"List ALL movies currently playing %s at the venue/mall named %q located %s today between %s and %s."+
			" It is crucial that the theater/mall is within or very near %q."+
			" Provide showtimes and ticket prices for every single movie found at this specific location.",
		yearContext(year), q.TheaterName, locationPart(q.City), q.StartTimeOfDay, q.EndTimeOfDay, q.City,
	)
}

func cityOnlyPrompt(q domain.SearchQuery, year int) string {
	return fmt.Sprintf(
		"Provide a comprehensive and exhaustive list of movies playing in %q %s today between %s and %s."+
			" Search for major chains, independent theaters, and local cinema clubs."+
			" Include theater names and current ticket prices for the widest range of options.",
		q.City, yearContext(year), q.StartTimeOfDay, q.EndTimeOfDay,
	)
}

func trendingPrompt(city string, year int) string {
	return fmt.Sprintf(
		"List the top 5 trending movies in theaters in %q for the current year %d."+
			" Provide: title, short genre, rating (e.g. 8.5/10), and a brief one-sentence description.",
		city, year,
	)
}
