// Package migration runs versioned, reversible changes against the
// document store (index builds, backfills) and records each applied
// migration in the "migrations" collection.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260101000000_create_users_indexes", &CreateUsersIndexes{})
//	}
//
//	type CreateUsersIndexes struct{}
//	func (m *CreateUsersIndexes) Up(ctx context.Context, db *mongo.Database) error { ... }
//	func (m *CreateUsersIndexes) Down(ctx context.Context, db *mongo.Database) error { ... }
//
// Run from CLI:
//
//	resell migrate             // run all pending
//	resell migrate:rollback    // rollback last batch
//	resell migrate:status
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resellbd/resell-api/pkg/logger"
)

// Collection holds one document per applied migration.
const Collection = "migrations"

// Migration is the interface every migration must implement.
type Migration interface {
	Up(ctx context.Context, db *mongo.Database) error
	Down(ctx context.Context, db *mongo.Database) error
}

type record struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"runAt"`
}

type registeredMigration struct {
	name string
	m    Migration
}

var (
	regMu    sync.Mutex
	registry []registeredMigration
)

// Register adds a migration to the global registry. name should be
// timestamp-prefixed so lexical order is chronological.
func Register(name string, m Migration) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	regMu.Lock()
	defer regMu.Unlock()
	out := append([]registeredMigration(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ledger is where applied migrations are recorded.
type ledger interface {
	list(ctx context.Context) ([]record, error)
	add(ctx context.Context, rec record) error
	remove(ctx context.Context, name string) error
}

// Runner executes and tracks migrations.
type Runner struct {
	db     *mongo.Database
	ledger ledger
	out    io.Writer
}

// New creates a Runner that records into db's migrations collection and
// prints progress to out.
func New(db *mongo.Database, out io.Writer) *Runner {
	return &Runner{db: db, ledger: mongoLedger{col: db.Collection(Collection)}, out: out}
}

// Pending returns the registered migrations that have not yet run.
func (r *Runner) Pending(ctx context.Context) ([]registeredMigration, error) {
	ran, err := r.ledger.list(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(ran))
	for _, rec := range ran {
		done[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range registered() {
		if !done[reg.name] {
			pending = append(pending, reg)
		}
	}
	return pending, nil
}

// Run executes all pending migrations as one batch and stops at the
// first failure.
func (r *Runner) Run(ctx context.Context) error {
	return r.run(ctx, false)
}

// RunAll executes every pending migration even when some fail. Failed
// migrations stay pending and their errors are joined into the result.
func (r *Runner) RunAll(ctx context.Context) error {
	return r.run(ctx, true)
}

func (r *Runner) run(ctx context.Context, keepGoing bool) error {
	pending, err := r.Pending(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return err
	}
	batch++

	var failed []error
	ran := 0
	for _, reg := range pending {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)
		if err := reg.m.Up(ctx, r.db); err != nil {
			err = fmt.Errorf("migration: %s up: %w", reg.name, err)
			if !keepGoing {
				return err
			}
			fmt.Fprintf(r.out, "  ❌ Failed:    %s\n", reg.name)
			logger.Warn("migration: skipped", "name", reg.name, "error", err)
			failed = append(failed, err)
			continue
		}
		if err := r.ledger.add(ctx, record{Name: reg.name, Batch: batch, RunAt: time.Now().UTC()}); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		ran++
		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", ran, "failed", len(failed), "batch", batch)
	return errors.Join(failed...)
}

// Rollback reverses every migration in the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) error {
	ran, err := r.ledger.list(ctx)
	if err != nil {
		return err
	}
	last := 0
	for _, rec := range ran {
		if rec.Batch > last {
			last = rec.Batch
		}
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	byName := make(map[string]Migration)
	for _, reg := range registered() {
		byName[reg.name] = reg.m
	}

	var batch []record
	for _, rec := range ran {
		if rec.Batch == last {
			batch = append(batch, rec)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Name > batch[j].Name })

	for _, rec := range batch {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.ledger.remove(ctx, rec.Name); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status prints every registered migration and whether it has run.
func (r *Runner) Status(ctx context.Context) error {
	ran, err := r.ledger.list(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]record, len(ran))
	for _, rec := range ran {
		byName[rec.Name] = rec
	}

	fmt.Fprintf(r.out, "%-50s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, reg := range registered() {
		if rec, ok := byName[reg.name]; ok {
			fmt.Fprintf(r.out, "%-50s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-50s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	ran, err := r.ledger.list(ctx)
	if err != nil {
		return 0, err
	}
	last := 0
	for _, rec := range ran {
		if rec.Batch > last {
			last = rec.Batch
		}
	}
	return last, nil
}

type mongoLedger struct {
	col *mongo.Collection
}

func (l mongoLedger) list(ctx context.Context) ([]record, error) {
	cur, err := l.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []record
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l mongoLedger) add(ctx context.Context, rec record) error {
	_, err := l.col.InsertOne(ctx, rec)
	return err
}

func (l mongoLedger) remove(ctx context.Context, name string) error {
	_, err := l.col.DeleteOne(ctx, bson.M{"name": name})
	return err
}
