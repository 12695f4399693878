package telephony

import "context"

// Provider defines the provider-agnostic interface used by business logic.
//
// Rules:
// - No provider REST calls outside telephony adapters.
// - Keep request/response types provider-agnostic; the provider call SID is an
//   opaque correlation key to everyone else.
type Provider interface {
	Name() string

	// PlaceCall dials an outbound call that plays the given voice document.
	PlaceCall(ctx context.Context, req PlaceCallRequest) (PlaceCallResult, error)

	// FetchRecording downloads the binary audio of a completed recording
	// segment, authenticated against the provider.
	FetchRecording(ctx context.Context, recordingSID string) ([]byte, error)
}

type PlaceCallRequest struct {
	// To and From are E.164.
	To   string
	From string

	// VoiceDocument is the rendered script (TwiML for Twilio).
	VoiceDocument string
}

type PlaceCallResult struct {
	// ProviderCallSID is the provider's unique identifier for this call,
	// assigned exactly once and used to correlate every later webhook.
	ProviderCallSID string
}
