package telephony

import (
	"errors"
	"net/http"
	"strings"
)

// RecordingCallback captures the subset of recording-status webhook fields we
// care about. Twilio sends application/x-www-form-urlencoded by default.
//
// Keep it minimal and provider-adapter-only. Presence validation and all
// business logic live in the pipeline, not here.
type RecordingCallback struct {
	CallSid           string
	RecordingURL      string
	RecordingSid      string
	RecordingStatus   string
	RecordingDuration string
}

func ParseRecordingCallback(r *http.Request) (RecordingCallback, error) {
	if err := r.ParseForm(); err != nil {
		return RecordingCallback{}, err
	}
	return RecordingCallback{
		CallSid:           strings.TrimSpace(r.PostFormValue("CallSid")),
		RecordingURL:      strings.TrimSpace(r.PostFormValue("RecordingUrl")),
		RecordingSid:      strings.TrimSpace(r.PostFormValue("RecordingSid")),
		RecordingStatus:   r.PostFormValue("RecordingStatus"),
		RecordingDuration: r.PostFormValue("RecordingDuration"),
	}, nil
}

// RecordingSIDFromURL derives the provider-internal recording identifier from
// a recording URL of the form
// https://api.twilio.com/2010-04-01/Accounts/AC.../Recordings/RE...
func RecordingSIDFromURL(recordingURL string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(recordingURL), "/")
	if trimmed == "" {
		return "", errors.New("telephony: empty recording url")
	}
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return "", errors.New("telephony: recording url has no sid segment")
	}
	sid := trimmed[idx+1:]
	// Strip a format suffix if the provider appended one.
	if dot := strings.Index(sid, "."); dot > 0 {
		sid = sid[:dot]
	}
	if sid == "" {
		return "", errors.New("telephony: recording url has no sid segment")
	}
	return sid, nil
}
