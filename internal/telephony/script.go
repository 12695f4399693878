package telephony

import "fmt"

// A feedback call is an ordered sequence of announcements and recording
// segments. The generator is pure and deterministic: no network, no storage,
// and the same inputs always produce the same script.

type StepKind string

const (
	StepAnnounce StepKind = "announce"
	StepRecord   StepKind = "record"
)

type Step struct {
	Kind StepKind

	// Text is set for announce steps.
	Text string

	// Record-step fields. MaxSilenceSeconds ends the segment after that much
	// silence; CallbackURL receives the recording webhook.
	MaxSilenceSeconds int
	PlayBeep          bool
	CallbackURL       string
}

type Script struct {
	Steps []Step
}

// recordSegmentSilenceSeconds bounds how long a silent caller holds a segment
// open before the provider moves on.
const recordSegmentSilenceSeconds = 5

// BuildFeedbackScript produces the fixed three-question feedback call:
// disclosure, greeting, then an open-ended experience question, a positive
// highlight question and an improvement question, each recorded, bracketed by
// a closing thank-you. Never fails on well-formed string inputs.
func BuildFeedbackScript(clientName, agentName, brokerage, callbackURL string) Script {
	record := Step{
		Kind:              StepRecord,
		MaxSilenceSeconds: recordSegmentSilenceSeconds,
		PlayBeep:          true,
		CallbackURL:       callbackURL,
	}
	announce := func(text string) Step {
		return Step{Kind: StepAnnounce, Text: text}
	}

	return Script{Steps: []Step{
		announce("This call may be recorded and analyzed for quality purposes."),
		announce(fmt.Sprintf("Hi %s, this is an automated follow-up from %s. How was your experience working with %s?", clientName, brokerage, agentName)),
		record,
		announce("Thank you for your feedback."),
		announce("What did you like most about the experience?"),
		record,
		announce("Thank you for your feedback."),
		announce("Is there anything that could have been better?"),
		record,
		announce("Thank you so much for your time and valuable feedback. We really appreciate you sharing your experience with us. Have a great day!"),
	}}
}

// RecordSegments counts the recording segments, i.e. the number of webhook
// deliveries a fully answered call produces.
func (s Script) RecordSegments() int {
	n := 0
	for _, st := range s.Steps {
		if st.Kind == StepRecord {
			n++
		}
	}
	return n
}

// TwiML renders the script as a provider voice document, ending with a hangup.
func (s Script) TwiML() (string, error) {
	r := twimlResponse{}
	for _, st := range s.Steps {
		switch st.Kind {
		case StepAnnounce:
			r.Verbs = append(r.Verbs, twimlSay{Text: st.Text})
		case StepRecord:
			r.Verbs = append(r.Verbs, twimlRecord{
				Timeout:                       st.MaxSilenceSeconds,
				PlayBeep:                      st.PlayBeep,
				RecordingStatusCallback:       st.CallbackURL,
				RecordingStatusCallbackMethod: "POST",
			})
		default:
			return "", fmt.Errorf("telephony: unknown step kind %q", st.Kind)
		}
	}
	r.Verbs = append(r.Verbs, twimlHangup{})
	return renderTwiML(r)
}
