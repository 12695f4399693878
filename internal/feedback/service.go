package feedback

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidArgument = errors.New("feedback: invalid argument")

// Service provides feedback CRUD for the HTTP surface. The webhook pipeline
// bypasses this service and inserts inside its own transaction.
type Service struct {
	db    *sql.DB
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

type CreateRequest struct {
	ClientID    string   `json:"client_id"`
	AgentID     string   `json:"agent_id"`
	CallID      string   `json:"call_id"`
	Sentiment   string   `json:"sentiment"`
	Rating      float64  `json:"rating"`
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Feedback, error) {
	if req.ClientID == "" || req.AgentID == "" || req.CallID == "" || req.Sentiment == "" {
		return Feedback{}, ErrInvalidArgument
	}
	items, err := EncodeActionItems(req.ActionItems)
	if err != nil {
		return Feedback{}, err
	}
	f := Feedback{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		AgentID:     req.AgentID,
		CallID:      req.CallID,
		Sentiment:   req.Sentiment,
		Rating:      req.Rating,
		Summary:     req.Summary,
		ActionItems: items,
		CreatedAt:   s.clock().UTC(),
	}
	if err := insertFeedback(ctx, s.db, f); err != nil {
		return Feedback{}, err
	}
	return f, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]Feedback, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return listFeedback(ctx, s.db, offset, limit)
}
