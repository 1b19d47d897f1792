package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	t.Parallel()

	d, isSQLite := Dialector("sqlite://:memory:")
	assert.True(t, isSQLite)
	assert.Equal(t, "sqlite", d.Name())

	d, isSQLite = Dialector("postgres://u:p@localhost:5432/artique?sslmode=disable")
	assert.False(t, isSQLite)
	assert.Equal(t, "postgres", d.Name())
}

func TestOpen_SQLiteMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gdb, err := Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Ping(ctx, gdb))

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "")
	require.Error(t, err)
}
