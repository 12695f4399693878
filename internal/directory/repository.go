package directory

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following tables exist:
// - clients (phone UNIQUE)
// - agents
//
// See db/schema.sql.

func insertClient(ctx context.Context, db *sql.DB, c Client) error {
	const q = `
INSERT INTO clients (id, name, phone, email, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	_, err := db.ExecContext(ctx, q, c.ID, c.Name, c.Phone, nullable(c.Email), c.CreatedAt)
	return err
}

func getClient(ctx context.Context, db *sql.DB, id string) (Client, error) {
	const q = `
SELECT id, name, phone, COALESCE(email, ''), created_at
FROM clients
WHERE id = $1
`
	var c Client
	if err := db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

func listClients(ctx context.Context, db *sql.DB, offset, limit int) ([]Client, error) {
	const q = `
SELECT id, name, phone, COALESCE(email, ''), created_at
FROM clients
ORDER BY created_at
OFFSET $1 LIMIT $2
`
	rows, err := db.QueryContext(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Client, 0)
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func insertAgent(ctx context.Context, db *sql.DB, a Agent) error {
	const q = `
INSERT INTO agents (id, name, brokerage, created_at)
VALUES ($1,$2,$3,$4)
`
	_, err := db.ExecContext(ctx, q, a.ID, a.Name, a.Brokerage, a.CreatedAt)
	return err
}

func listAgents(ctx context.Context, db *sql.DB, offset, limit int) ([]Agent, error) {
	const q = `
SELECT id, name, brokerage, created_at
FROM agents
ORDER BY created_at
OFFSET $1 LIMIT $2
`
	rows, err := db.QueryContext(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Agent, 0)
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Brokerage, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Tx variants below participate in call-initiation units of work.

func InsertClientTx(ctx context.Context, tx *sql.Tx, c Client) error {
	const q = `
INSERT INTO clients (id, name, phone, email, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	_, err := tx.ExecContext(ctx, q, c.ID, c.Name, c.Phone, nullable(c.Email), c.CreatedAt)
	return err
}

func FindClientByPhoneTx(ctx context.Context, tx *sql.Tx, phone string) (Client, bool, error) {
	const q = `
SELECT id, name, phone, COALESCE(email, ''), created_at
FROM clients
WHERE phone = $1
`
	var c Client
	err := tx.QueryRowContext(ctx, q, phone).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, false, nil
		}
		return Client{}, false, err
	}
	return c, true, nil
}

func InsertAgentTx(ctx context.Context, tx *sql.Tx, a Agent) error {
	const q = `
INSERT INTO agents (id, name, brokerage, created_at)
VALUES ($1,$2,$3,$4)
`
	_, err := tx.ExecContext(ctx, q, a.ID, a.Name, a.Brokerage, a.CreatedAt)
	return err
}

func FirstAgentTx(ctx context.Context, tx *sql.Tx) (Agent, bool, error) {
	const q = `
SELECT id, name, brokerage, created_at
FROM agents
ORDER BY created_at
LIMIT 1
`
	var a Agent
	err := tx.QueryRowContext(ctx, q).Scan(&a.ID, &a.Name, &a.Brokerage, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Agent{}, false, nil
		}
		return Agent{}, false, err
	}
	return a, true, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
