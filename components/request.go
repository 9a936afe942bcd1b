package components

import "github.com/google/uuid"

// Request is one user turn. Created once per turn, immutable, owned by the
// caller.
type Request struct {
	ID   uuid.UUID `json:"id"`
	Role MessageRole `json:"role"`
	Text string    `json:"text"`
}

// NewRequest returns a user Request with a fresh ID.
func NewRequest(text string) *Request {
	return &Request{
		ID:   uuid.New(),
		Role: UserRole,
		Text: text,
	}
}
