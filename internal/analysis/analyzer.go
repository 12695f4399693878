package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"realtor-feedback/pkg/logger"
)

const openAIDefaultBaseURL = "https://api.openai.com"

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

func validSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// Result is the structured outcome of analyzing one transcript.
// Field tags match the JSON shape the model is instructed to return.
type Result struct {
	Sentiment   Sentiment `json:"overall_sentiment"`
	Rating      float64   `json:"rating_estimate"`
	Summary     string    `json:"summary"`
	ActionItems []string  `json:"action_items"`
}

// Fallback is returned whenever the model's output cannot be used. A failed
// analysis must never abort the pipeline or drop the call.
func Fallback() Result {
	return Result{
		Sentiment:   SentimentNeutral,
		Rating:      5,
		Summary:     "Analysis failed",
		ActionItems: []string{},
	}
}

// Analyzer extracts structured feedback from a transcript via one
// chat-completion call. No retries beyond transport-level backoff, no
// streaming.
type Analyzer struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type Options struct {
	APIKey string

	// BaseURL overrides the public API endpoint, for tests.
	BaseURL string

	// Model defaults to gpt-3.5-turbo.
	Model string

	HTTPClient *http.Client
}

func NewAnalyzer(opts Options) (*Analyzer, error) {
	if opts.APIKey == "" {
		return nil, errors.New("analysis: api key required")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = openAIDefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Analyzer{
		apiKey:     opts.APIKey,
		baseURL:    base,
		model:      model,
		httpClient: hc,
	}, nil
}

// Analyze never fails: any transport or parse problem degrades to Fallback().
func (a *Analyzer) Analyze(ctx context.Context, transcript string) Result {
	res, err := a.extract(ctx, transcript)
	if err != nil {
		logger.From(ctx).Warn("feedback analysis fell back", "err", err)
		return Fallback()
	}
	return res
}

func buildPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze the following conversation transcript from a real estate client feedback call.

Transcript: %s

Extract the following in JSON format:
{
  "overall_sentiment": "Positive/Negative/Neutral",
  "rating_estimate": number between 1-10,
  "summary": "Brief summary of the feedback",
  "action_items": ["list", "of", "action", "items"]
}

Return only the JSON.`, transcript)
}

func (a *Analyzer) extract(ctx context.Context, transcript string) (Result, error) {
	reqBody := map[string]any{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(transcript)},
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, err
	}

	endpoint := a.baseURL + "/v1/chat/completions"

	var content string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+a.apiKey)

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("analysis: server error: status=%d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("analysis: request failed: status=%d", resp.StatusCode))
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("analysis: response decode: %w", err))
		}
		if len(parsed.Choices) == 0 {
			return backoff.Permanent(errors.New("analysis: response has no choices"))
		}
		content = parsed.Choices[0].Message.Content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return Result{}, err
	}

	return parseResult(content)
}

// parseResult extracts the JSON object from the model reply, tolerating prose
// around it, and validates the required shape.
func parseResult(content string) (Result, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Result{}, errors.New("analysis: reply contains no JSON object")
	}

	var res Result
	if err := json.Unmarshal([]byte(content[start:end+1]), &res); err != nil {
		return Result{}, fmt.Errorf("analysis: reply decode: %w", err)
	}
	if !validSentiment(res.Sentiment) {
		return Result{}, fmt.Errorf("analysis: invalid sentiment %q", res.Sentiment)
	}
	if res.Rating < 1 || res.Rating > 10 {
		return Result{}, fmt.Errorf("analysis: rating %v out of range", res.Rating)
	}
	if res.Summary == "" {
		return Result{}, errors.New("analysis: missing summary")
	}
	if res.ActionItems == nil {
		res.ActionItems = []string{}
	}
	return res, nil
}
