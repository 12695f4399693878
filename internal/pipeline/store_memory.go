package pipeline

import (
	"context"
	"sync"

	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/feedback"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	Calls    []calls.Call
	Feedback []feedback.Feedback

	// SaveErr, when set, makes SaveSegment fail without mutating state.
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AddCall(c calls.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, c)
}

func (s *MemoryStore) FindCallBySID(ctx context.Context, providerCallSID string) (calls.Call, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Calls {
		if c.ProviderCallSID == providerCallSID {
			return c, true, nil
		}
	}
	return calls.Call{}, false, nil
}

func (s *MemoryStore) SaveSegment(ctx context.Context, seg Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	for i := range s.Calls {
		if s.Calls[i].ID == seg.CallID {
			s.Calls[i].RecordingURL = seg.RecordingURL
			s.Calls[i].Transcript = seg.Transcript
			s.Feedback = append(s.Feedback, seg.Feedback)
			return nil
		}
	}
	return calls.ErrNotFound
}
