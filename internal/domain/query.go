package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SearchQuery captures one showtime search as submitted by the user.
// Time-of-day values are wall-clock "HH:MM" strings with no timezone; they are
// advisory to the discovery service and are not validated locally.
type SearchQuery struct {
	MovieName      string `json:"movieName"`
	TheaterName    string `json:"theaterName"`
	City           string `json:"city" validate:"required_with=MovieName TheaterName"`
	StartTimeOfDay string `json:"startTime"`
	EndTimeOfDay   string `json:"endTime"`
}

// ValidationError reports a query rejected before any remote call, naming the
// field the user must fill in.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Normalize trims surrounding whitespace from every field.
func (q *SearchQuery) Normalize() {
	q.MovieName = strings.TrimSpace(q.MovieName)
	q.TheaterName = strings.TrimSpace(q.TheaterName)
	q.City = strings.TrimSpace(q.City)
	q.StartTimeOfDay = strings.TrimSpace(q.StartTimeOfDay)
	q.EndTimeOfDay = strings.TrimSpace(q.EndTimeOfDay)
}

// Validate enforces the dispatch rules: at least one of movie, theater, or
// city must be present, and a movie or theater search must name a city.
func (q SearchQuery) Validate() error {
	if q.MovieName == "" && q.TheaterName == "" && q.City == "" {
		return &ValidationError{
			Field:   "query",
			Message: "provide at least a movie name, a mall/theater, or a city to search",
		}
	}
	if err := validate.Struct(q); err != nil {
		target := "mall showtimes"
		if q.MovieName != "" {
			target = "movie prices"
		}
		return &ValidationError{
			Field:   "city",
			Message: "a city is required to find " + target + " accurately in your area",
		}
	}
	return nil
}
