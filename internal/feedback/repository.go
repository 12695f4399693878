package feedback

import (
	"context"
	"database/sql"
)

// NOTE: This repository assumes the following table exists:
// - feedback (append-only)
//
// See db/schema.sql.

func insertFeedback(ctx context.Context, db *sql.DB, f Feedback) error {
	const q = `
INSERT INTO feedback (id, client_id, agent_id, call_id, sentiment, rating, summary, action_items, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := db.ExecContext(ctx, q,
		f.ID,
		f.ClientID,
		f.AgentID,
		f.CallID,
		f.Sentiment,
		f.Rating,
		f.Summary,
		f.ActionItems,
		f.CreatedAt,
	)
	return err
}

func listFeedback(ctx context.Context, db *sql.DB, offset, limit int) ([]Feedback, error) {
	const q = `
SELECT id, client_id, agent_id, call_id, sentiment, rating, summary, action_items, created_at
FROM feedback
ORDER BY created_at
OFFSET $1 LIMIT $2
`
	rows, err := db.QueryContext(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Feedback, 0)
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(
			&f.ID,
			&f.ClientID,
			&f.AgentID,
			&f.CallID,
			&f.Sentiment,
			&f.Rating,
			&f.Summary,
			&f.ActionItems,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertTx participates in the per-segment unit of work that also updates the
// call snapshot.
func InsertTx(ctx context.Context, tx *sql.Tx, f Feedback) error {
	const q = `
INSERT INTO feedback (id, client_id, agent_id, call_id, sentiment, rating, summary, action_items, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := tx.ExecContext(ctx, q,
		f.ID,
		f.ClientID,
		f.AgentID,
		f.CallID,
		f.Sentiment,
		f.Rating,
		f.Summary,
		f.ActionItems,
		f.CreatedAt,
	)
	return err
}
