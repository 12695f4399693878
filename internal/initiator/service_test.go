package initiator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"realtor-feedback/internal/directory"
	"realtor-feedback/internal/telephony"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+14155551234", "+14155551234"},
		{"4155551234", "+14155551234"},
		{" 415 555 1234 ", "+14155551234"},
		{"(415) 555-1234", "+14155551234"},
		{"415.555.1234", "+14155551234"},
		{"+44 20 7946 0958", "+442079460958"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in, "+1")
		if err != nil {
			t.Fatalf("NormalizePhone(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "+", "call me", "415x5551234", "41+55551234"} {
		if _, err := NormalizePhone(in, "+1"); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("NormalizePhone(%q) err = %v, want ErrInvalidPhone", in, err)
		}
	}
}

type stubDialer struct {
	req  telephony.PlaceCallRequest
	sid  string
	err  error
	dial int
}

func (d *stubDialer) PlaceCall(ctx context.Context, req telephony.PlaceCallRequest) (telephony.PlaceCallResult, error) {
	d.dial++
	d.req = req
	if d.err != nil {
		return telephony.PlaceCallResult{}, d.err
	}
	return telephony.PlaceCallResult{ProviderCallSID: d.sid}, nil
}

func newTestService(store Store, dialer Dialer) *Service {
	svc := NewService(store, dialer, Options{
		FromNumber:           "+15550001111",
		CallbackURL:          "https://feedback.example.com/webhooks/twilio/recording",
		DefaultCountryPrefix: "+1",
	})
	svc.clock = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestInitiateCallCreatesSentinels(t *testing.T) {
	store := NewMemoryStore()
	dialer := &stubDialer{sid: "CA100"}
	svc := newTestService(store, dialer)

	res, err := svc.InitiateCall(context.Background(), "415 555 0000")
	if err != nil {
		t.Fatalf("InitiateCall: %v", err)
	}
	if res.ProviderCallSID != "CA100" {
		t.Errorf("sid = %q, want CA100", res.ProviderCallSID)
	}
	if !strings.Contains(res.Message, "+14155550000") {
		t.Errorf("message %q missing normalized number", res.Message)
	}

	if len(store.Agents) != 1 || store.Agents[0].Name != directory.SentinelAgentName {
		t.Fatalf("agents = %+v, want one sentinel agent", store.Agents)
	}
	if len(store.Clients) != 1 || store.Clients[0].Name != directory.SentinelClientName {
		t.Fatalf("clients = %+v, want one sentinel client", store.Clients)
	}
	if len(store.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(store.Calls))
	}
	call := store.Calls[0]
	if call.ProviderCallSID != "CA100" || call.AgentID != store.Agents[0].ID || call.ClientID != store.Clients[0].ID {
		t.Errorf("call row not linked: %+v", call)
	}

	if dialer.req.To != "+14155550000" || dialer.req.From != "+15550001111" {
		t.Errorf("dial request = %+v", dialer.req)
	}
	if !strings.Contains(dialer.req.VoiceDocument, "<Record") {
		t.Errorf("voice document missing Record verbs: %q", dialer.req.VoiceDocument)
	}
	if !strings.Contains(dialer.req.VoiceDocument, "https://feedback.example.com/webhooks/twilio/recording") {
		t.Errorf("voice document missing callback URL")
	}
}

func TestInitiateCallReusesExistingRows(t *testing.T) {
	store := NewMemoryStore()
	store.Agents = append(store.Agents, directory.Agent{ID: "a1", Name: "Dana", Brokerage: "Hilltop Realty"})
	store.Clients = append(store.Clients, directory.Client{ID: "c1", Name: "Morgan", Phone: "+14155550000"})
	dialer := &stubDialer{sid: "CA200"}
	svc := newTestService(store, dialer)

	if _, err := svc.InitiateCall(context.Background(), "4155550000"); err != nil {
		t.Fatalf("InitiateCall: %v", err)
	}
	if len(store.Agents) != 1 || len(store.Clients) != 1 {
		t.Fatalf("created duplicates: agents=%d clients=%d", len(store.Agents), len(store.Clients))
	}
	if store.Calls[0].AgentID != "a1" || store.Calls[0].ClientID != "c1" {
		t.Errorf("call not linked to existing rows: %+v", store.Calls[0])
	}
	if !strings.Contains(dialer.req.VoiceDocument, "Morgan") || !strings.Contains(dialer.req.VoiceDocument, "Dana") {
		t.Errorf("script does not use existing names: %q", dialer.req.VoiceDocument)
	}
}

func TestInitiateCallRollsBackOnDialFailure(t *testing.T) {
	store := NewMemoryStore()
	dialer := &stubDialer{err: errors.New("carrier unavailable")}
	svc := newTestService(store, dialer)

	if _, err := svc.InitiateCall(context.Background(), "4155550000"); err == nil {
		t.Fatal("expected error")
	}
	if len(store.Agents) != 0 || len(store.Clients) != 0 || len(store.Calls) != 0 {
		t.Errorf("rollback incomplete: agents=%d clients=%d calls=%d",
			len(store.Agents), len(store.Clients), len(store.Calls))
	}
}

func TestInitiateCallInvalidNumberDoesNotDial(t *testing.T) {
	store := NewMemoryStore()
	dialer := &stubDialer{}
	svc := newTestService(store, dialer)

	if _, err := svc.InitiateCall(context.Background(), "not a number"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("err = %v, want ErrInvalidPhone", err)
	}
	if dialer.dial != 0 {
		t.Errorf("dialed %d times, want 0", dialer.dial)
	}
}
