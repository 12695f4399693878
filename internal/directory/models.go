package directory

import "time"

// Client is a person we call for feedback. Referenced by calls and feedback
// rows by id, never embedded.
//
// Phone is unique and stored in dialable E.164 form.
type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Agent is the realtor a feedback call is about.
type Agent struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Brokerage string    `json:"brokerage" db:"brokerage"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Sentinel values used when a call is initiated before any client or agent
// has been registered, so an ad-hoc call can always proceed.
const (
	SentinelAgentName      = "Test Agent"
	SentinelAgentBrokerage = "Test Realty"
	SentinelClientName     = "Sara"
)
