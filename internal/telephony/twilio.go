package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const twilioDefaultBaseURL = "https://api.twilio.com"

// TwilioProvider talks to the Twilio REST API directly. No SDK: the surface we
// need is two endpoints, and raw HTTP keeps the adapter inspectable.
type TwilioProvider struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

type TwilioOptions struct {
	AccountSID string
	AuthToken  string

	// BaseURL overrides the public API endpoint, for tests.
	BaseURL string

	HTTPClient *http.Client
}

func NewTwilioProvider(opts TwilioOptions) (*TwilioProvider, error) {
	if opts.AccountSID == "" || opts.AuthToken == "" {
		return nil, errors.New("telephony: twilio credentials required")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = twilioDefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &TwilioProvider{
		accountSID: opts.AccountSID,
		authToken:  opts.AuthToken,
		baseURL:    base,
		httpClient: hc,
	}, nil
}

func (p *TwilioProvider) Name() string { return "twilio" }

func (p *TwilioProvider) PlaceCall(ctx context.Context, req PlaceCallRequest) (PlaceCallResult, error) {
	if req.To == "" || req.From == "" || req.VoiceDocument == "" {
		return PlaceCallResult{}, errors.New("telephony: to, from and voice document required")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", p.baseURL, p.accountSID)
	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Twiml", req.VoiceDocument)

	// Dialing is not idempotent; a retry could ring the client twice.
	// Single attempt only.
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return PlaceCallResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(p.accountSID, p.authToken)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return PlaceCallResult{}, fmt.Errorf("telephony: place call: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PlaceCallResult{}, fmt.Errorf("telephony: place call rejected: status=%d body=%s", resp.StatusCode, truncate(body, 512))
	}

	var parsed struct {
		Sid string `json:"sid"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return PlaceCallResult{}, fmt.Errorf("telephony: place call response decode: %w", err)
	}
	if parsed.Sid == "" {
		return PlaceCallResult{}, errors.New("telephony: place call response missing sid")
	}
	return PlaceCallResult{ProviderCallSID: parsed.Sid}, nil
}

func (p *TwilioProvider) FetchRecording(ctx context.Context, recordingSID string) ([]byte, error) {
	if recordingSID == "" {
		return nil, errors.New("telephony: recording sid required")
	}

	// Media URL: the resource without a format suffix serves WAV audio.
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Recordings/%s", p.baseURL, p.accountSID, recordingSID)

	var audio []byte
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.SetBasicAuth(p.accountSID, p.authToken)

		resp, err := p.httpClient.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("telephony: recording fetch server error: status=%d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("telephony: recording fetch failed: status=%d body=%s", resp.StatusCode, truncate(body, 512)))
		}
		audio = body
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, errors.New("telephony: recording is empty")
	}
	return audio, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
