package request

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/reqarr/internal/migrations"
	"github.com/vmunix/reqarr/internal/user"
)

var (
	alice = user.User{ID: "u-alice", Name: "alice"}
	bob   = user.User{ID: "u-bob", Name: "bob"}
	admin = user.User{ID: "u-admin", Name: "root", IsAdmin: true}
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(db), "apply schema")

	users := user.NewStore(db)
	for _, u := range []user.User{alice, bob, admin} {
		require.NoError(t, users.Add(context.Background(), &u), "seed user %s", u.Name)
	}
	return db
}

// fixedClock returns a clock that can be moved by the test.
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }
func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T) (*Manager, *Store, *fixedClock) {
	t.Helper()
	store := NewStore(setupTestDB(t))
	clock := &fixedClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewManager(store, nil, nil, WithClock(clock.Now)), store, clock
}
