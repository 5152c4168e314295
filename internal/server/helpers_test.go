package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/threepins/xword/internal/database"
	"github.com/threepins/xword/internal/migrations"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

// testNow sits on a whole second, so stored timestamps have no fraction.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = migrations.Run(ctx, db)
	require.NoError(t, err)
	return NewSQLiteStore(db)
}

func testRouter(t *testing.T, store Store) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	addRoutes(r, discardLogger(), store, Options{
		GridSize:        15,
		ThumbnailSquare: 10,
		Now:             func() time.Time { return testNow },
	})
	return r
}

func createAuthor(t *testing.T, store Store, username string, staff bool) Author {
	t.Helper()
	a, err := store.CreateAuthor(context.Background(), username, "hash", staff)
	require.NoError(t, err)
	return a
}

func createStaff(t *testing.T, store Store, username, password string) Author {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	a, err := store.CreateAuthor(context.Background(), username, hash, true)
	require.NoError(t, err)
	return a
}

func withAuth(req *http.Request, username, password string) *http.Request {
	req.SetBasicAuth(username, password)
	return req
}
