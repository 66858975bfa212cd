package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/reqarr/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(db))
	return db
}

func requestCreated(id int64, at time.Time) *RequestCreated {
	e := &RequestCreated{
		BaseEvent: NewBaseEvent(EventRequestCreated, EntityRequest, id),
		UserID:    "u-1",
		MediaID:   603,
		Kind:      "movie",
		Status:    "Approved",
	}
	e.Timestamp = at
	return e
}

func TestEventLog_AppendAndSince(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := range 3 {
		id, err := log.Append(ctx, requestCreated(int64(i+1), base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	all, err := log.Since(ctx, base, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, EventRequestCreated, all[0].EventType)
	assert.Equal(t, base, all[0].OccurredAt)
	assert.Contains(t, all[0].Payload, `"media_id":603`)

	later, err := log.Since(ctx, base.Add(time.Hour), 0)
	require.NoError(t, err)
	assert.Len(t, later, 2)

	limited, err := log.Since(ctx, base, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestEventLog_ForEntity(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))
	now := time.Now().UTC()

	_, err := log.Append(ctx, requestCreated(1, now))
	require.NoError(t, err)
	_, err = log.Append(ctx, requestCreated(2, now))
	require.NoError(t, err)
	_, err = log.Append(ctx, &RequestDeleted{BaseEvent: NewBaseEvent(EventRequestDeleted, EntityRequest, 1), ActorID: "u-1"})
	require.NoError(t, err)

	got, err := log.ForEntity(ctx, EntityRequest, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EventRequestDeleted, got[1].EventType)

	decoded, err := DefaultRegistry().Unmarshal(got[1])
	require.NoError(t, err)
	assert.Equal(t, "u-1", decoded.(*RequestDeleted).ActorID)
}

func TestEventLog_Prune(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	_, err := log.Append(ctx, requestCreated(1, now.Add(-10*24*time.Hour)))
	require.NoError(t, err)
	_, err = log.Append(ctx, requestCreated(2, now.Add(-time.Hour)))
	require.NoError(t, err)

	n, err := log.Prune(ctx, 7*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := log.Since(ctx, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, int64(2), left[0].EntityID)
}
