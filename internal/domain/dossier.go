package domain

// CastMember is one credited performer with an optional headshot.
type CastMember struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// UserReview is an audience review pulled from the catalog source.
type UserReview struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Rating  string `json:"rating"`
	URL     string `json:"url,omitempty"`
}

// CriticalReview is one high-authority critic review synthesized by the
// model from live sources.
type CriticalReview struct {
	Source  string `json:"source"`
	Author  string `json:"author"`
	Summary string `json:"summary"`
	Score   string `json:"score"`
	URL     string `json:"url,omitempty"`
}

// SimilarMovie is a related-title suggestion. Poster is enriched after the
// base list arrives and falls back to a generated placeholder image URL.
type SimilarMovie struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	PosterURL string `json:"poster"`
}

// Dossier merges catalog facts with the AI-derived critical overlay. The
// catalog fields are ground truth; mood tags, consensus, critic reviews, and
// similar titles degrade to defaults when the synthesis step fails.
type Dossier struct {
	Title       string           `json:"title"`
	Year        string           `json:"year"`
	Tagline     string           `json:"tagline,omitempty"`
	Synopsis    string           `json:"synopsis"`
	Genres      []string         `json:"genres"`
	Runtime     string           `json:"runtime"`
	ReleaseDate string           `json:"releaseDate"`
	PosterURL   string           `json:"poster,omitempty"`
	BackdropURL string           `json:"backdrop,omitempty"`
	Rating      string           `json:"rating"`
	BoxOffice   string           `json:"boxOffice"`
	Cast        []CastMember     `json:"cast"`
	UserReviews []UserReview     `json:"userReviews"`
	MoodTags    []string         `json:"moodTags"`
	Consensus   string           `json:"consensus"`
	Reviews     []CriticalReview `json:"criticReviews"`
	Similar     []SimilarMovie   `json:"similar"`
}
