package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-papers/internal/audit"
	"github.com/mind-engage/mindengage-papers/internal/db"
)

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	repo := audit.NewEventRepo(conn, "")
	require.NoError(t, repo.Append(ctx, audit.Event{Type: audit.TypeExportRendered, Key: "a.csv", DataJSON: `{"n":1}`}))
	require.NoError(t, repo.Append(ctx, audit.Event{Type: audit.TypeExportRendered, Key: "b.csv", DataJSON: `{"n":2}`}))

	events, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b.csv", events[0].Key, "newest first")
	assert.Equal(t, "local", events[0].SiteID)
	assert.Greater(t, events[0].Seq, events[1].Seq)

	one, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
