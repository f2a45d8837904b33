package migration

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type memLedger struct{ recs []record }

func (l *memLedger) list(context.Context) ([]record, error) {
	return append([]record(nil), l.recs...), nil
}

func (l *memLedger) add(_ context.Context, rec record) error {
	l.recs = append(l.recs, rec)
	return nil
}

func (l *memLedger) remove(_ context.Context, name string) error {
	for i, rec := range l.recs {
		if rec.Name == name {
			l.recs = append(l.recs[:i], l.recs[i+1:]...)
			return nil
		}
	}
	return nil
}

type step struct {
	name  string
	trail *[]string
	err   error
}

func (s step) Up(context.Context, *mongo.Database) error {
	*s.trail = append(*s.trail, "up:"+s.name)
	return s.err
}

func (s step) Down(context.Context, *mongo.Database) error {
	*s.trail = append(*s.trail, "down:"+s.name)
	return nil
}

func withRegistry(t *testing.T, regs ...registeredMigration) {
	t.Helper()
	regMu.Lock()
	saved := registry
	registry = regs
	regMu.Unlock()
	t.Cleanup(func() {
		regMu.Lock()
		registry = saved
		regMu.Unlock()
	})
}

func TestRunAndRollback(t *testing.T) {
	var trail []string
	withRegistry(t,
		registeredMigration{"0002_orders", step{"orders", &trail, nil}},
		registeredMigration{"0001_users", step{"users", &trail, nil}},
	)

	ctx := context.Background()
	l := &memLedger{}
	var out bytes.Buffer
	r := &Runner{ledger: l, out: &out}

	require.NoError(t, r.Run(ctx))
	assert.Equal(t, []string{"up:users", "up:orders"}, trail)
	require.Len(t, l.recs, 2)
	assert.Equal(t, 1, l.recs[0].Batch)

	require.NoError(t, r.Run(ctx))
	assert.Contains(t, out.String(), "Nothing to migrate.")

	require.NoError(t, r.Status(ctx))
	assert.Contains(t, out.String(), "0001_users")

	require.NoError(t, r.Rollback(ctx))
	assert.Equal(t, []string{"up:users", "up:orders", "down:orders", "down:users"}, trail)
	assert.Empty(t, l.recs)

	require.NoError(t, r.Rollback(ctx))
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestRunStopsOnFailure(t *testing.T) {
	var trail []string
	withRegistry(t,
		registeredMigration{"0001_ok", step{"ok", &trail, nil}},
		registeredMigration{"0002_bad", step{"bad", &trail, errors.New("index conflict")}},
		registeredMigration{"0003_never", step{"never", &trail, nil}},
	)

	l := &memLedger{}
	err := (&Runner{ledger: l, out: &bytes.Buffer{}}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_bad")
	assert.Equal(t, []string{"up:ok", "up:bad"}, trail)
	assert.Len(t, l.recs, 1)
}

func TestRunAllContinuesPastFailure(t *testing.T) {
	var trail []string
	boom := errors.New("E11000 duplicate key")
	fail := step{"users", &trail, boom}
	withRegistry(t,
		registeredMigration{"0001_users", fail},
		registeredMigration{"0002_orders", step{"orders", &trail, nil}},
	)

	ctx := context.Background()
	l := &memLedger{}
	r := &Runner{ledger: l, out: &bytes.Buffer{}}

	err := r.RunAll(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"up:users", "up:orders"}, trail)
	require.Len(t, l.recs, 1)
	assert.Equal(t, "0002_orders", l.recs[0].Name)

	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "0001_users", pending[0].name)
}
