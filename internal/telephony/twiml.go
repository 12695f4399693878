package telephony

import (
	"bytes"
	"encoding/xml"
)

// Minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include primitives we need at the adapter boundary.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

type twimlRecord struct {
	XMLName                       xml.Name `xml:"Record"`
	Timeout                       int      `xml:"timeout,attr"`
	PlayBeep                      bool     `xml:"playBeep,attr"`
	RecordingStatusCallback       string   `xml:"recordingStatusCallback,attr"`
	RecordingStatusCallbackMethod string   `xml:"recordingStatusCallbackMethod,attr"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

func renderTwiML(r twimlResponse) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EmptyResponse is the acknowledgment that tells the provider to continue the
// call unmodified. The provider accepts no other body shape on the webhook.
func EmptyResponse() string {
	s, _ := renderTwiML(twimlResponse{})
	return s
}

// HangupResponse ends the call.
func HangupResponse() string {
	s, _ := renderTwiML(twimlResponse{Verbs: []any{twimlHangup{}}})
	return s
}
