package calls

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrNotFound        = errors.New("calls: not found")
	ErrInvalidArgument = errors.New("calls: invalid argument")
)

// Service provides read access to call attempts.
//
// Calls are created by the initiator and mutated by the webhook pipeline; the
// HTTP surface only lists them.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]Call, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return listCalls(ctx, s.db, offset, limit)
}
