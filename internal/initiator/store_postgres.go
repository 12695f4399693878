package initiator

import (
	"context"
	"database/sql"

	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/directory"
	"realtor-feedback/pkg/utils"
)

// PostgresStore backs initiation with a single database transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Initiate(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, pgTx{tx: tx})
	})
}

type pgTx struct {
	tx *sql.Tx
}

func (t pgTx) FirstAgent(ctx context.Context) (directory.Agent, bool, error) {
	return directory.FirstAgentTx(ctx, t.tx)
}

func (t pgTx) InsertAgent(ctx context.Context, a directory.Agent) error {
	return directory.InsertAgentTx(ctx, t.tx, a)
}

func (t pgTx) FindClientByPhone(ctx context.Context, phone string) (directory.Client, bool, error) {
	return directory.FindClientByPhoneTx(ctx, t.tx, phone)
}

func (t pgTx) InsertClient(ctx context.Context, c directory.Client) error {
	return directory.InsertClientTx(ctx, t.tx, c)
}

func (t pgTx) InsertCall(ctx context.Context, c calls.Call) error {
	return calls.InsertTx(ctx, t.tx, c)
}
