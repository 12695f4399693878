package calls

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
// - calls (provider_call_sid UNIQUE)
//
// See db/schema.sql.

func listCalls(ctx context.Context, db *sql.DB, offset, limit int) ([]Call, error) {
	const q = `
SELECT id, client_id, agent_id, provider_call_sid,
       COALESCE(recording_url, ''), COALESCE(transcript, ''), created_at
FROM calls
ORDER BY created_at
OFFSET $1 LIMIT $2
`
	rows, err := db.QueryContext(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		var c Call
		if err := rows.Scan(
			&c.ID,
			&c.ClientID,
			&c.AgentID,
			&c.ProviderCallSID,
			&c.RecordingURL,
			&c.Transcript,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindByProviderSID correlates a recording webhook to its call.
func FindByProviderSID(ctx context.Context, db *sql.DB, providerCallSID string) (Call, bool, error) {
	const q = `
SELECT id, client_id, agent_id, provider_call_sid,
       COALESCE(recording_url, ''), COALESCE(transcript, ''), created_at
FROM calls
WHERE provider_call_sid = $1
`
	var c Call
	err := db.QueryRowContext(ctx, q, providerCallSID).Scan(
		&c.ID,
		&c.ClientID,
		&c.AgentID,
		&c.ProviderCallSID,
		&c.RecordingURL,
		&c.Transcript,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Call{}, false, nil
		}
		return Call{}, false, err
	}
	return c, true, nil
}

// InsertTx participates in the call-initiation unit of work.
func InsertTx(ctx context.Context, tx *sql.Tx, c Call) error {
	const q = `
INSERT INTO calls (id, client_id, agent_id, provider_call_sid, recording_url, transcript, created_at)
VALUES ($1,$2,$3,$4,NULL,NULL,$5)
`
	_, err := tx.ExecContext(ctx, q, c.ID, c.ClientID, c.AgentID, c.ProviderCallSID, c.CreatedAt)
	return err
}

// UpdateSnapshotTx overwrites the latest-segment snapshot fields.
// Last writer wins across segments.
func UpdateSnapshotTx(ctx context.Context, tx *sql.Tx, callID, recordingURL, transcript string) error {
	const q = `
UPDATE calls
SET recording_url = $2, transcript = $3
WHERE id = $1
`
	res, err := tx.ExecContext(ctx, q, callID, recordingURL, transcript)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
