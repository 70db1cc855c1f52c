package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/internal/journal"
)

// stale RUNNING jobs are handed back to the queue after this long
const staleAfter = 5 * time.Minute

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Enqueue(ctx context.Context, userID uint64, typ string, payload any, runAt time.Time) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	runAt = runAt.UTC()
	j := Job{
		UserID:      userID,
		Type:        typ,
		Payload:     datatypes.JSON(b),
		RunAt:       runAt,
		Status:      StatusPending,
		MaxAttempts: 8,
		CreatedAt:   runAt,
		UpdatedAt:   runAt,
	}
	return r.DB.WithContext(ctx).Create(&j).Error
}

type streakReviewPayload struct {
	Today journal.Day `json:"today"`
}

// EnqueueStreakReview asks the worker to award the milestones the user's
// streak has reached as of today.
func (r *Repo) EnqueueStreakReview(ctx context.Context, userID uint64, today journal.Day, now time.Time) error {
	return r.Enqueue(ctx, userID, TypeStreakReview, streakReviewPayload{Today: today}, now)
}

// Claim takes one due job. Postgres skips rows other workers hold; sqlite
// has a single writer so the row lock is dropped there. It returns nil
// when nothing is due.
func (r *Repo) Claim(ctx context.Context, workerID string, now time.Time) (*Job, error) {
	now = now.UTC()
	var claimed *Job
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// requeue stuck RUNNING jobs
		if err := tx.Model(&Job{}).
			Where("status = ? AND locked_at IS NOT NULL AND locked_at < ?", StatusRunning, now.Add(-staleAfter)).
			Updates(map[string]any{
				"status":     StatusPending,
				"locked_by":  nil,
				"locked_at":  nil,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		var job Job
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND run_at <= ?", StatusPending, now).
			Order("run_at asc, id asc").
			First(&job).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		res := tx.Model(&Job{}).
			Where("id = ? AND status = ?", job.ID, StatusPending).
			Updates(map[string]any{
				"status":     StatusRunning,
				"locked_by":  workerID,
				"locked_at":  now,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		job.Status = StatusRunning
		job.LockedBy = &workerID
		job.LockedAt = &now
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{"status": StatusDone, "updated_at": now.UTC()}).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{"status": StatusFailed, "last_error": errMsg, "updated_at": now.UTC()}).Error
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     StatusPending,
			"attempts":   attempts,
			"run_at":     runAt.UTC(),
			"locked_by":  nil,
			"locked_at":  nil,
			"last_error": errMsg,
			"updated_at": now.UTC(),
		}).Error
}
