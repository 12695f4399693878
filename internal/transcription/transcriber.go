package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"realtor-feedback/internal/telephony"
)

const openAIDefaultBaseURL = "https://api.openai.com"

// RecordingSource downloads recording audio from the telephony provider.
// Satisfied by telephony.Provider.
type RecordingSource interface {
	FetchRecording(ctx context.Context, recordingSID string) ([]byte, error)
}

// Transcriber converts a recording reference into text via the speech-to-text
// API. Every internal failure (network, auth, decode, empty audio) is caught
// and returned as an error value; nothing escapes the boundary as a panic.
type Transcriber struct {
	source     RecordingSource
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type Options struct {
	Source RecordingSource
	APIKey string

	// BaseURL overrides the public API endpoint, for tests.
	BaseURL string

	// Model defaults to whisper-1.
	Model string

	HTTPClient *http.Client
}

func NewTranscriber(opts Options) (*Transcriber, error) {
	if opts.Source == nil {
		return nil, errors.New("transcription: recording source required")
	}
	if opts.APIKey == "" {
		return nil, errors.New("transcription: api key required")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = openAIDefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &Transcriber{
		source:     opts.Source,
		apiKey:     opts.APIKey,
		baseURL:    base,
		model:      model,
		httpClient: hc,
	}, nil
}

// Transcribe fetches the recording behind recordingURL, stages it in a temp
// file and submits it to speech-to-text. The staging file is removed on every
// exit path.
func (t *Transcriber) Transcribe(ctx context.Context, recordingURL string) (string, error) {
	sid, err := telephony.RecordingSIDFromURL(recordingURL)
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}

	audio, err := t.source.FetchRecording(ctx, sid)
	if err != nil {
		return "", fmt.Errorf("transcription: recording fetch: %w", err)
	}
	if len(audio) == 0 {
		return "", errors.New("transcription: recording is empty")
	}

	tmp, err := os.CreateTemp("", "recording-*.wav")
	if err != nil {
		return "", fmt.Errorf("transcription: stage recording: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(audio); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("transcription: stage recording: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("transcription: stage recording: %w", err)
	}

	return t.submit(ctx, tmpName)
}

func (t *Transcriber) submit(ctx context.Context, path string) (string, error) {
	endpoint := t.baseURL + "/v1/audio/transcriptions"

	var text string
	operation := func() error {
		body, contentType, err := t.multipartBody(path)
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+t.apiKey)

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("transcription: server error: status=%d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("transcription: request failed: status=%d body=%s", resp.StatusCode, truncate(respBody, 512)))
		}

		var parsed struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("transcription: response decode: %w", err))
		}
		text = parsed.Text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return text, nil
}

func (t *Transcriber) multipartBody(path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "recording.wav")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("model", t.model); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
