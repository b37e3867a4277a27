package out

import (
	"context"

	"forge/internal/modules/session/domain"
)

// SnapshotStore persists the durable subset of engine state. Saves are
// fire-and-forget from the engine's point of view: the in-memory state is
// authoritative and a failed write only risks losing the snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
}

// TaskCompleter marks the active task completed in the external task store,
// once, at successful finalization.
type TaskCompleter interface {
	MarkCompleted(ctx context.Context, taskID string) error
}

// JournalStore writes a human-readable note for a counted session.
type JournalStore interface {
	Save(ctx context.Context, record domain.Record) (string, error)
}

// HistoryProjector mirrors counted records into a queryable index. It is a
// projection of the snapshot, never the source of truth.
type HistoryProjector interface {
	Upsert(ctx context.Context, record domain.Record) error
}
