package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("directory: not found")
	ErrInvalidArgument = errors.New("directory: invalid argument")
)

// Service provides client and agent CRUD.
//
// Clients and agents are immutable once created; profile updates are a
// separate concern and not offered here.
type Service struct {
	db *sql.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

type CreateClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type CreateAgentRequest struct {
	Name      string `json:"name"`
	Brokerage string `json:"brokerage"`
}

func (s *Service) CreateClient(ctx context.Context, req CreateClientRequest) (Client, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return Client{}, ErrInvalidArgument
	}
	c := Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: s.clock().UTC(),
	}
	if err := insertClient(ctx, s.db, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) GetClient(ctx context.Context, id string) (Client, error) {
	if id == "" {
		return Client{}, ErrInvalidArgument
	}
	return getClient(ctx, s.db, id)
}

func (s *Service) ListClients(ctx context.Context, offset, limit int) ([]Client, error) {
	offset, limit = clampPage(offset, limit)
	return listClients(ctx, s.db, offset, limit)
}

func (s *Service) CreateAgent(ctx context.Context, req CreateAgentRequest) (Agent, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Brokerage) == "" {
		return Agent{}, ErrInvalidArgument
	}
	a := Agent{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Brokerage: strings.TrimSpace(req.Brokerage),
		CreatedAt: s.clock().UTC(),
	}
	if err := insertAgent(ctx, s.db, a); err != nil {
		return Agent{}, err
	}
	return a, nil
}

func (s *Service) ListAgents(ctx context.Context, offset, limit int) ([]Agent, error) {
	offset, limit = clampPage(offset, limit)
	return listAgents(ctx, s.db, offset, limit)
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return offset, limit
}
