package telephony

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseRecordingCallback(t *testing.T) {
	body := strings.NewReader("CallSid=CA123&RecordingUrl=https%3A%2F%2Fapi.twilio.com%2F2010-04-01%2FAccounts%2FAC1%2FRecordings%2FRE456&RecordingSid=RE456")
	r := httptest.NewRequest(http.MethodPost, "/webhooks/twilio/recording", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cb, err := ParseRecordingCallback(r)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cb.CallSid != "CA123" {
		t.Fatalf("expected CallSid, got %q", cb.CallSid)
	}
	if cb.RecordingSid != "RE456" {
		t.Fatalf("expected RecordingSid, got %q", cb.RecordingSid)
	}
	if !strings.HasSuffix(cb.RecordingURL, "/Recordings/RE456") {
		t.Fatalf("unexpected RecordingURL: %q", cb.RecordingURL)
	}
}

func TestParseRecordingCallback_MissingFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/webhooks/twilio/recording", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cb, err := ParseRecordingCallback(r)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cb.CallSid != "" || cb.RecordingURL != "" {
		t.Fatalf("expected empty fields, got %+v", cb)
	}
}

func TestRecordingSIDFromURL(t *testing.T) {
	sid, err := RecordingSIDFromURL("https://api.twilio.com/2010-04-01/Accounts/AC1/Recordings/RE456")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sid != "RE456" {
		t.Fatalf("expected RE456, got %q", sid)
	}

	sid, err = RecordingSIDFromURL("https://api.twilio.com/2010-04-01/Accounts/AC1/Recordings/RE456.wav")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sid != "RE456" {
		t.Fatalf("expected format suffix stripped, got %q", sid)
	}

	if _, err := RecordingSIDFromURL(""); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := RecordingSIDFromURL("///"); err == nil {
		t.Fatalf("expected error for url without sid")
	}
}
