package calls

import "time"

// Call represents one outbound feedback-call attempt.
//
// ProviderCallSID is assigned exactly once at creation and is the sole
// correlation key for recording webhooks.
//
// RecordingURL and Transcript are a "latest segment" snapshot, overwritten as
// each recording segment is processed. The durable per-segment history lives
// in feedback rows, one per segment.
type Call struct {
	ID       string `json:"id" db:"id"`
	ClientID string `json:"client_id" db:"client_id"`
	AgentID  string `json:"agent_id" db:"agent_id"`

	ProviderCallSID string `json:"provider_call_sid" db:"provider_call_sid"`

	RecordingURL string `json:"recording_url,omitempty" db:"recording_url"`
	Transcript   string `json:"transcript,omitempty" db:"transcript"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
