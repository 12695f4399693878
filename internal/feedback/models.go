package feedback

import (
	"encoding/json"
	"time"
)

// Feedback is one structured analysis result for one recorded segment.
// Rows are append-only: created once per successfully analyzed segment and
// never mutated. A call with several recording segments produces several
// feedback rows, one per question answered.
type Feedback struct {
	ID       string `json:"id" db:"id"`
	ClientID string `json:"client_id" db:"client_id"`
	AgentID  string `json:"agent_id" db:"agent_id"`
	CallID   string `json:"call_id" db:"call_id"`

	Sentiment string  `json:"sentiment" db:"sentiment"`
	Rating    float64 `json:"rating" db:"rating"`
	Summary   string  `json:"summary" db:"summary"`

	// ActionItems is stored as a JSON array string; use EncodeActionItems and
	// DecodeActionItems to convert.
	ActionItems string `json:"action_items" db:"action_items"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EncodeActionItems serializes an ordered action-item list to its stored form.
// A nil list encodes as an empty JSON array.
func EncodeActionItems(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeActionItems reverses EncodeActionItems, preserving order.
func DecodeActionItems(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
