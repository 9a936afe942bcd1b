package agents

// Record is one structured result row. Rows stay schemaless because they are
// recovered from heterogeneous trace content; the domain is inferred from
// distinguishing keys rather than stored.
type Record = map[string]any

// Answer is the terminal output of one turn.
type Answer struct {
	// Text is the natural-language answer. Never empty; extraction falls back
	// to a canned message.
	Text string `json:"text"`
	// Results is the structured payload. Never nil; empty slice when nothing
	// was recovered.
	Results []Record `json:"results"`
}

// Domain tags inferred from record keys.
const (
	DomainRestaurant = "restaurant"
	DomainHotel      = "hotel"
	DomainVideo      = "video"
	DomainTrack      = "track"
	DomainUnknown    = "unknown"
)

// InferDomain tags a record by its distinguishing keys. Consumers rely on
// this inference instead of a stored tag.
func InferDomain(r Record) string {
	switch {
	case hasKey(r, "cuisine"):
		return DomainRestaurant
	case hasKey(r, "amenities"):
		return DomainHotel
	case hasKey(r, "channel"):
		return DomainVideo
	case hasKey(r, "spotify_url"):
		return DomainTrack
	default:
		return DomainUnknown
	}
}

func hasKey(r Record, key string) bool {
	_, ok := r[key]
	return ok
}
