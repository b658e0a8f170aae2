package storage

import (
	"context"
)

// BackupStorage persists plan snapshots to object storage. Backups are
// best-effort: callers log failures and move on, they never fail a
// request over a missing backup.
type BackupStorage interface {
	// SavePlanBackup writes a JSON snapshot of a plan under the given id.
	SavePlanBackup(ctx context.Context, planID string, data []byte) error

	// DeletePlanBackup removes the snapshot for a plan, if any.
	DeletePlanBackup(ctx context.Context, planID string) error
}
