package telephony

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTwilioPlaceCall(t *testing.T) {
	var gotTo, gotFrom, gotTwiml string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC1/Calls.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "AC1" || pass != "token" {
			t.Errorf("expected basic auth, got %q %q", user, pass)
		}
		_ = r.ParseForm()
		gotTo = r.PostFormValue("To")
		gotFrom = r.PostFormValue("From")
		gotTwiml = r.PostFormValue("Twiml")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"CA999"}`))
	}))
	defer srv.Close()

	p, err := NewTwilioProvider(TwilioOptions{AccountSID: "AC1", AuthToken: "token", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	res, err := p.PlaceCall(context.Background(), PlaceCallRequest{
		To:            "+14155550000",
		From:          "+15550001111",
		VoiceDocument: "<Response/>",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.ProviderCallSID != "CA999" {
		t.Fatalf("expected CA999, got %q", res.ProviderCallSID)
	}
	if gotTo != "+14155550000" || gotFrom != "+15550001111" || gotTwiml != "<Response/>" {
		t.Fatalf("unexpected form: to=%q from=%q twiml=%q", gotTo, gotFrom, gotTwiml)
	}
}

func TestTwilioPlaceCall_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
	}))
	defer srv.Close()

	p, _ := NewTwilioProvider(TwilioOptions{AccountSID: "AC1", AuthToken: "bad", BaseURL: srv.URL})
	_, err := p.PlaceCall(context.Background(), PlaceCallRequest{To: "+1", From: "+2", VoiceDocument: "<Response/>"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestTwilioFetchRecording(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC1/Recordings/RE1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("RIFFaudio"))
	}))
	defer srv.Close()

	p, _ := NewTwilioProvider(TwilioOptions{AccountSID: "AC1", AuthToken: "token", BaseURL: srv.URL})
	audio, err := p.FetchRecording(context.Background(), "RE1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(audio) != "RIFFaudio" {
		t.Fatalf("unexpected audio: %q", audio)
	}
}

func TestTwilioFetchRecording_NotFoundIsPermanent(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p, _ := NewTwilioProvider(TwilioOptions{AccountSID: "AC1", AuthToken: "token", BaseURL: srv.URL})
	if _, err := p.FetchRecording(context.Background(), "REmissing"); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected no retry on 404, got %d attempts", calls)
	}
}

func TestNewTwilioProvider_RequiresCredentials(t *testing.T) {
	if _, err := NewTwilioProvider(TwilioOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}
