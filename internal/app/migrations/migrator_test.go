package migrations

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTx captures statements so the version insert can be asserted to
// run on the migration's own transaction.
type recordingTx struct {
	pgx.Tx
	sql  []string
	args [][]any
}

func (f *recordingTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestRecordMigration_RunsOnTransaction(t *testing.T) {
	tx := &recordingTx{}

	err := recordMigration(context.Background(), tx, "001")
	require.NoError(t, err)

	require.Len(t, tx.sql, 1)
	assert.Contains(t, tx.sql[0], "INSERT INTO schema_migrations")
	assert.Equal(t, "001", tx.args[0][0])
}
