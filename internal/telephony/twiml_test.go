package telephony

import (
	"strings"
	"testing"
)

func TestEmptyResponse(t *testing.T) {
	xml := EmptyResponse()
	if !strings.Contains(xml, "<Response") {
		t.Fatalf("expected Response element: %s", xml)
	}
	if strings.Contains(xml, "<Say") || strings.Contains(xml, "<Record") || strings.Contains(xml, "<Hangup") {
		t.Fatalf("expected no verbs: %s", xml)
	}
}

func TestHangupResponse(t *testing.T) {
	xml := HangupResponse()
	if !strings.Contains(xml, "<Hangup") {
		t.Fatalf("expected Hangup verb: %s", xml)
	}
}
