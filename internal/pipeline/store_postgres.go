package pipeline

import (
	"context"
	"database/sql"

	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/feedback"
	"realtor-feedback/pkg/utils"
)

// PostgresStore persists segments with one transaction per segment: the call
// snapshot update and the feedback insert commit together or not at all.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindCallBySID(ctx context.Context, providerCallSID string) (calls.Call, bool, error) {
	return calls.FindByProviderSID(ctx, s.db, providerCallSID)
}

func (s *PostgresStore) SaveSegment(ctx context.Context, seg Segment) error {
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if err := calls.UpdateSnapshotTx(ctx, tx, seg.CallID, seg.RecordingURL, seg.Transcript); err != nil {
			return err
		}
		return feedback.InsertTx(ctx, tx, seg.Feedback)
	})
}
