package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := NewSQLite(filepath.Join(t.TempDir(), "data", "notedrop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLite_UpsertAndGet(t *testing.T) {
	db := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := airdrop.Record{
		ID:           "zk-1",
		Name:         "zkSync",
		Subtitle:     "Era rollup",
		Chain:        "Ethereum",
		Stage:        "active",
		Cost:         2.5,
		CreatedAt:    created,
		CoverImage:   "cover.png",
		Requirements: airdrop.List("Bridge", "Swap"),
		HowToSteps:   airdrop.Keyed(airdrop.Pair{Key: "Bridge", Value: "Use the portal"}, airdrop.Pair{Key: "Swap", Value: "Any DEX"}),
		Backers:      []string{"Dragonfly"},
	}

	n, err := db.Upsert(ctx, []airdrop.Record{rec})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := db.Get(ctx, "zk-1")
	require.NoError(t, err)
	require.Equal(t, rec.Name, got.Name)
	require.Equal(t, rec.Cost, got.Cost)
	require.True(t, got.CreatedAt.Equal(created), "created_at = %v", got.CreatedAt)
	require.Equal(t, rec.Requirements.Normalize(), got.Requirements.Normalize())
	require.Equal(t, rec.HowToSteps.Normalize(), got.HowToSteps.Normalize())
	require.Equal(t, []string{"Dragonfly"}, got.Backers)

	rec.Stage = "ended"
	_, err = db.Upsert(ctx, []airdrop.Record{rec})
	require.NoError(t, err)
	got, err = db.Get(ctx, "zk-1")
	require.NoError(t, err)
	require.Equal(t, "ended", got.Stage)
}

func TestSQLite_GetMissing(t *testing.T) {
	db := openTestStore(t)
	_, err := db.Get(context.Background(), "nope")
	require.True(t, errors.Is(err, catalog.ErrNotFound), "err = %v", err)
}

func TestSQLite_ListPagesNewestFirst(t *testing.T) {
	db := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []airdrop.Record
	for i := 0; i < 23; i++ {
		records = append(records, airdrop.Record{
			ID:        fmt.Sprintf("r%02d", i),
			Name:      fmt.Sprintf("Drop %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	records = append(records, airdrop.Record{ID: "undated", Name: "Undated"})
	_, err := db.Upsert(ctx, records)
	require.NoError(t, err)

	first, err := db.List(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, first.Records, 20)
	require.Equal(t, 24, first.Total)
	require.Equal(t, "r22", first.Records[0].ID)

	second, err := db.List(ctx, 2, 20)
	require.NoError(t, err)
	require.Len(t, second.Records, 4)
	require.Equal(t, "undated", second.Records[3].ID)
	require.True(t, second.Records[3].CreatedAt.IsZero())
}

func TestSQLite_UpsertRejectsEmptyID(t *testing.T) {
	db := openTestStore(t)
	_, err := db.Upsert(context.Background(), []airdrop.Record{{Name: "No id"}})
	require.Error(t, err)
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open("mysql", "dsn")
	require.Error(t, err)
}

func TestRebind(t *testing.T) {
	s := &sqlStore{dollar: true}
	require.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", s.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	s.dollar = false
	require.Equal(t, "a = ?", s.rebind("a = ?"))
}
