package initiator

import (
	"context"
	"sync"

	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/directory"
)

// MemoryStore is an in-memory Store for tests and local development.
// Rollback is implemented by snapshotting the slices before the unit of
// work and restoring them on error.
type MemoryStore struct {
	mu      sync.Mutex
	Agents  []directory.Agent
	Clients []directory.Client
	Calls   []calls.Call
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Initiate(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents := append([]directory.Agent(nil), s.Agents...)
	clients := append([]directory.Client(nil), s.Clients...)
	callRows := append([]calls.Call(nil), s.Calls...)

	if err := fn(ctx, memTx{s: s}); err != nil {
		s.Agents = agents
		s.Clients = clients
		s.Calls = callRows
		return err
	}
	return nil
}

type memTx struct {
	s *MemoryStore
}

func (t memTx) FirstAgent(ctx context.Context) (directory.Agent, bool, error) {
	if len(t.s.Agents) == 0 {
		return directory.Agent{}, false, nil
	}
	return t.s.Agents[0], true, nil
}

func (t memTx) InsertAgent(ctx context.Context, a directory.Agent) error {
	t.s.Agents = append(t.s.Agents, a)
	return nil
}

func (t memTx) FindClientByPhone(ctx context.Context, phone string) (directory.Client, bool, error) {
	for _, c := range t.s.Clients {
		if c.Phone == phone {
			return c, true, nil
		}
	}
	return directory.Client{}, false, nil
}

func (t memTx) InsertClient(ctx context.Context, c directory.Client) error {
	t.s.Clients = append(t.s.Clients, c)
	return nil
}

func (t memTx) InsertCall(ctx context.Context, c calls.Call) error {
	t.s.Calls = append(t.s.Calls, c)
	return nil
}
