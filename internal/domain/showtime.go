package domain

// ShowtimeEntry is one normalized screening returned by the discovery
// service. DisplayName follows the "<Movie Title> @ <Theater/Mall Name>"
// convention enforced by the prompt.
type ShowtimeEntry struct {
	DisplayName    string  `json:"name"`
	Address        string  `json:"address"`
	Showtime       string  `json:"showtime"`
	Price          float64 `json:"price"`
	CurrencySymbol string  `json:"currencySymbol"`
	BookingURL     string  `json:"bookingUrl"`
	// IsCheapest is derived at ingestion, never supplied upstream. Exactly
	// one entry in a non-empty result set carries it.
	IsCheapest bool `json:"isCheapest"`
}

// CitationSource is provenance metadata attached to a grounded model reply.
type CitationSource struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// TrendingMovie is an ephemeral per-city highlight, regenerated on every
// request and never persisted.
type TrendingMovie struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
}
