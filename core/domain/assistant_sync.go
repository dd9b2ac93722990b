package domain

import "time"

// SyncCheckpoint is one row of the append-only sync history. The latest row
// by last_sync_time is the effective checkpoint for a user.
type SyncCheckpoint struct {
	ID              int64     `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	LastSyncTime    time.Time `json:"last_sync_time" db:"last_sync_time"`
	EmailsProcessed int       `json:"emails_processed" db:"emails_processed"`
	TasksCreated    int       `json:"tasks_created" db:"tasks_created"`
}

// SyncResult is the summary of one successful sync run.
type SyncResult struct {
	EmailsProcessed int       `json:"emails_processed"`
	TasksCreated    int       `json:"tasks_created"`
	LastSync        time.Time `json:"last_sync"`
}

// WindowPolicy resolves the inclusion floor for a sync run. Two lookbacks
// exist: DefaultLookback applies when a user has no checkpoint yet, and
// FloorFallback applies on call paths where no resolved floor is threaded
// through at all.
type WindowPolicy struct {
	DefaultLookback time.Duration
	FloorFallback   time.Duration

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewWindowPolicy returns the stock policy: 20-day default lookback, 7-day
// fallback.
func NewWindowPolicy() *WindowPolicy {
	return &WindowPolicy{
		DefaultLookback: 20 * 24 * time.Hour,
		FloorFallback:   7 * 24 * time.Hour,
	}
}

func (p *WindowPolicy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Resolve returns the inclusion floor for a run: the checkpoint time when one
// exists, otherwise now minus DefaultLookback.
func (p *WindowPolicy) Resolve(checkpoint *time.Time) time.Time {
	if checkpoint != nil && !checkpoint.IsZero() {
		return *checkpoint
	}
	return p.now().Add(-p.DefaultLookback)
}

// Fallback returns the floor used when none was threaded through: now minus
// FloorFallback.
func (p *WindowPolicy) Fallback() time.Time {
	return p.now().Add(-p.FloorFallback)
}
