package analysis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, reply)
		_, _ = w.Write([]byte(resp))
	}))
}

func newTestAnalyzer(t *testing.T, srv *httptest.Server) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(Options{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return a
}

func TestAnalyze_ParsesModelReply(t *testing.T) {
	srv := chatServer(t, `{"overall_sentiment":"Positive","rating_estimate":9,"summary":"Loved the agent","action_items":["send thank-you note"]}`)
	defer srv.Close()

	res := newTestAnalyzer(t, srv).Analyze(context.Background(), "It was wonderful.")
	if res.Sentiment != SentimentPositive {
		t.Fatalf("expected Positive, got %q", res.Sentiment)
	}
	if res.Rating != 9 {
		t.Fatalf("expected rating 9, got %v", res.Rating)
	}
	if len(res.ActionItems) != 1 || res.ActionItems[0] != "send thank-you note" {
		t.Fatalf("unexpected action items: %v", res.ActionItems)
	}
}

func TestAnalyze_ToleratesProseAroundJSON(t *testing.T) {
	srv := chatServer(t, `Here is the analysis: {"overall_sentiment":"Negative","rating_estimate":2,"summary":"Unhappy with communication","action_items":[]} Hope that helps!`)
	defer srv.Close()

	res := newTestAnalyzer(t, srv).Analyze(context.Background(), "Terrible.")
	if res.Sentiment != SentimentNegative {
		t.Fatalf("expected Negative, got %q", res.Sentiment)
	}
}

func TestAnalyze_GarbageReplyYieldsExactFallback(t *testing.T) {
	srv := chatServer(t, "I am sorry, I cannot help with that.")
	defer srv.Close()

	res := newTestAnalyzer(t, srv).Analyze(context.Background(), "anything")
	want := Fallback()
	if res.Sentiment != want.Sentiment || res.Rating != want.Rating || res.Summary != want.Summary {
		t.Fatalf("expected fallback, got %+v", res)
	}
	if res.ActionItems == nil || len(res.ActionItems) != 0 {
		t.Fatalf("expected empty action items, got %v", res.ActionItems)
	}
}

func TestAnalyze_InvalidSentimentYieldsFallback(t *testing.T) {
	srv := chatServer(t, `{"overall_sentiment":"Ecstatic","rating_estimate":9,"summary":"x","action_items":[]}`)
	defer srv.Close()

	res := newTestAnalyzer(t, srv).Analyze(context.Background(), "x")
	if res.Summary != "Analysis failed" {
		t.Fatalf("expected fallback, got %+v", res)
	}
}

func TestAnalyze_RatingOutOfRangeYieldsFallback(t *testing.T) {
	srv := chatServer(t, `{"overall_sentiment":"Positive","rating_estimate":42,"summary":"x","action_items":[]}`)
	defer srv.Close()

	res := newTestAnalyzer(t, srv).Analyze(context.Background(), "x")
	if res.Summary != "Analysis failed" {
		t.Fatalf("expected fallback, got %+v", res)
	}
}

func TestAnalyze_ProviderErrorYieldsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	res := newTestAnalyzer(t, srv).Analyze(context.Background(), "x")
	if res.Summary != "Analysis failed" {
		t.Fatalf("expected fallback, got %+v", res)
	}
}

func TestBuildPrompt_ContainsTranscriptAndSchema(t *testing.T) {
	p := buildPrompt("the house tour went well")
	for _, want := range []string{"the house tour went well", "overall_sentiment", "rating_estimate", "summary", "action_items"} {
		if !strings.Contains(p, want) {
			t.Fatalf("expected %q in prompt", want)
		}
	}
}
