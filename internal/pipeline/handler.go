package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realtor-feedback/internal/analysis"
	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/feedback"
	"realtor-feedback/internal/telephony"
	"realtor-feedback/pkg/logger"
)

// Segment is the atomic write produced by one processed recording webhook:
// the call snapshot update plus the new feedback row. Either both land or
// neither does.
type Segment struct {
	CallID       string
	RecordingURL string
	Transcript   string
	Feedback     feedback.Feedback
}

type Store interface {
	FindCallBySID(ctx context.Context, providerCallSID string) (calls.Call, bool, error)
	SaveSegment(ctx context.Context, seg Segment) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, recordingURL string) (string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, transcript string) analysis.Result
}

// Dedupe suppresses reprocessing of redelivered webhooks. Marking is
// best-effort: a dedupe failure must never block segment processing.
type Dedupe interface {
	Mark(ctx context.Context, recordingSID string) (fresh bool, err error)
	Clear(ctx context.Context, recordingSID string) error
}

// Handler processes recording-status webhooks: fetch and transcribe the
// segment audio, extract structured feedback, and persist it against the
// originating call.
//
// Twilio expects a TwiML body on every response, so every outcome answers
// 200 with the empty continuation document. Failures degrade server-side
// only (log + skipped persistence); the live call always plays out the
// remaining script steps.
type Handler struct {
	store       Store
	transcriber Transcriber
	analyzer    Analyzer
	dedupe      Dedupe

	clock func() time.Time
}

func NewHandler(store Store, transcriber Transcriber, analyzer Analyzer, dedupe Dedupe) *Handler {
	return &Handler{
		store:       store,
		transcriber: transcriber,
		analyzer:    analyzer,
		dedupe:      dedupe,
		clock:       time.Now,
	}
}

const twimlContentType = "application/xml"

func (h *Handler) HandleRecording(c *gin.Context) {
	log := logger.FromGin(c)
	ctx := c.Request.Context()

	cb, err := telephony.ParseRecordingCallback(c.Request)
	if err != nil {
		log.Warn("recording webhook: malformed form", "error", err)
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}
	if cb.CallSid == "" || cb.RecordingURL == "" {
		log.Warn("recording webhook: missing fields",
			"call_sid", cb.CallSid, "has_recording_url", cb.RecordingURL != "")
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}
	log = log.With("call_sid", cb.CallSid)

	fresh, marked := h.markOnce(ctx, log, cb)
	if !fresh {
		log.Info("recording webhook: duplicate delivery, skipping", "recording_sid", cb.RecordingSid)
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}

	transcript, err := h.transcriber.Transcribe(ctx, cb.RecordingURL)
	if err != nil {
		log.Error("recording webhook: transcription failed", "error", err)
		h.clearMark(ctx, log, cb, marked)
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}

	call, ok, err := h.store.FindCallBySID(ctx, cb.CallSid)
	if err != nil {
		log.Error("recording webhook: call lookup failed", "error", err)
		h.clearMark(ctx, log, cb, marked)
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}
	if !ok {
		log.Warn("recording webhook: unknown call sid")
		h.clearMark(ctx, log, cb, marked)
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}

	result := h.analyzer.Analyze(logger.With(ctx, log), transcript)

	items, err := feedback.EncodeActionItems(result.ActionItems)
	if err != nil {
		log.Error("recording webhook: action items encode failed", "error", err)
		h.clearMark(ctx, log, cb, marked)
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}

	seg := Segment{
		CallID:       call.ID,
		RecordingURL: cb.RecordingURL,
		Transcript:   transcript,
		Feedback: feedback.Feedback{
			ID:          uuid.NewString(),
			ClientID:    call.ClientID,
			AgentID:     call.AgentID,
			CallID:      call.ID,
			Sentiment:   string(result.Sentiment),
			Rating:      result.Rating,
			Summary:     result.Summary,
			ActionItems: items,
			CreatedAt:   h.clock().UTC(),
		},
	}
	if err := h.store.SaveSegment(ctx, seg); err != nil {
		log.Error("recording webhook: segment save failed", "error", err)
		h.clearMark(ctx, log, cb, marked)
		c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
		return
	}

	log.Info("recording webhook: segment processed",
		"feedback_id", seg.Feedback.ID, "sentiment", seg.Feedback.Sentiment)
	c.Data(http.StatusOK, twimlContentType, []byte(telephony.EmptyResponse()))
}

// markOnce claims the recording for processing. Returns fresh=false only when
// the dedupe layer positively reports a prior claim; dedupe errors and a
// missing recording sid fall through to processing.
func (h *Handler) markOnce(ctx context.Context, log *slog.Logger, cb telephony.RecordingCallback) (fresh, marked bool) {
	if h.dedupe == nil || cb.RecordingSid == "" {
		return true, false
	}
	ok, err := h.dedupe.Mark(ctx, cb.RecordingSid)
	if err != nil {
		log.Warn("recording webhook: dedupe mark failed", "error", err)
		return true, false
	}
	return ok, true
}

// clearMark releases the dedupe claim after a processing failure so the
// provider's redelivery gets a clean retry.
func (h *Handler) clearMark(ctx context.Context, log *slog.Logger, cb telephony.RecordingCallback, marked bool) {
	if !marked {
		return
	}
	if err := h.dedupe.Clear(ctx, cb.RecordingSid); err != nil {
		log.Warn("recording webhook: dedupe clear failed", "error", err)
	}
}
