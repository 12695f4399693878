package pipeline

import (
	"context"
	"net/url"
	"testing"

	"realtor-feedback/internal/analysis"
	"realtor-feedback/internal/initiator"
	"realtor-feedback/internal/telephony"
)

type captureDialer struct {
	doc string
	sid string
}

func (d *captureDialer) PlaceCall(ctx context.Context, req telephony.PlaceCallRequest) (telephony.PlaceCallResult, error) {
	d.doc = req.VoiceDocument
	return telephony.PlaceCallResult{ProviderCallSID: d.sid}, nil
}

// Exercises the full outbound flow: initiate a call, then deliver a recording
// webhook for it and verify the structured feedback lands against that call.
func TestInitiateThenWebhookProducesFeedback(t *testing.T) {
	initStore := initiator.NewMemoryStore()
	dialer := &captureDialer{sid: "CA-e2e-1"}
	svc := initiator.NewService(initStore, dialer, initiator.Options{
		FromNumber:           "+15550001111",
		CallbackURL:          "https://feedback.example.com/webhooks/twilio/recording",
		DefaultCountryPrefix: "+1",
	})

	res, err := svc.InitiateCall(context.Background(), "4155550000")
	if err != nil {
		t.Fatalf("InitiateCall: %v", err)
	}
	if res.ProviderCallSID != "CA-e2e-1" {
		t.Fatalf("sid = %q", res.ProviderCallSID)
	}
	if len(initStore.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(initStore.Calls))
	}

	store := NewMemoryStore()
	store.AddCall(initStore.Calls[0])
	h := NewHandler(store, &fakeTranscriber{text: "The agent was fantastic."},
		fakeAnalyzer{result: goodResult()}, &fakeDedupe{})

	form := url.Values{}
	form.Set("CallSid", res.ProviderCallSID)
	form.Set("RecordingUrl", recordingURL)
	form.Set("RecordingSid", "RE-e2e-1")
	w := postWebhook(newWebhookRouter(h), form)
	if w.Code != 200 {
		t.Fatalf("webhook status = %d", w.Code)
	}

	if len(store.Feedback) != 1 {
		t.Fatalf("feedback rows = %d, want 1", len(store.Feedback))
	}
	fb := store.Feedback[0]
	if fb.CallID != initStore.Calls[0].ID {
		t.Errorf("feedback call id = %q, want %q", fb.CallID, initStore.Calls[0].ID)
	}
	switch fb.Sentiment {
	case string(analysis.SentimentPositive), string(analysis.SentimentNegative), string(analysis.SentimentNeutral):
	default:
		t.Errorf("sentiment %q outside allowed set", fb.Sentiment)
	}
}
