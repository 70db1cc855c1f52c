package jobs

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"inkwell/internal/journal"
	"inkwell/internal/logging"
)

type Worker struct {
	ID           string
	Repo         *Repo
	Journal      journal.Repository
	Logger       logging.Logger
	Milestones   []journal.Milestone
	PollInterval time.Duration
	Now          func() time.Time
}

func (w *Worker) now() time.Time {
	if w.Now == nil {
		return time.Now().UTC()
	}
	return w.Now().UTC()
}

func (w *Worker) log() logging.Logger {
	if w.Logger == nil {
		return logging.Nop{}
	}
	return w.Logger
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.PollInterval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.log().Error("worker claim error", "worker", w.ID, "err", err)
			}
		}
	}
}

// RunOnce claims and handles at most one due job. It reports whether a job ran.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.Repo.Claim(ctx, w.ID, w.now())
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeStreakReview:
		w.handleStreakReview(ctx, job)
	default:
		w.markFailed(ctx, job, "unknown job type")
	}
}

func (w *Worker) handleStreakReview(ctx context.Context, job *Job) {
	var p streakReviewPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil || p.Today.IsZero() {
		w.markFailed(ctx, job, "bad payload")
		return
	}

	days, err := w.Journal.Days(ctx, job.UserID)
	if err != nil {
		w.retry(ctx, job, "db read error")
		return
	}

	table := w.Milestones
	if len(table) == 0 {
		table = journal.DefaultMilestones
	}
	streak := journal.CurrentStreak(days, p.Today)
	now := w.now()
	for _, m := range journal.Reached(streak, table) {
		added, err := w.Journal.Award(ctx, journal.Award{OwnerID: job.UserID, Days: m.Days, Label: m.Label, AwardedAt: now})
		if err != nil {
			w.retry(ctx, job, "db write error")
			return
		}
		if added {
			w.log().Info("milestone reached", "user", job.UserID, "days", m.Days, "label", m.Label)
		}
	}

	if err := w.Repo.MarkDone(ctx, job.ID, now); err != nil {
		w.log().Error("mark job done failed", "job", job.ID, "err", err)
	}
}

func (w *Worker) markFailed(ctx context.Context, job *Job, errMsg string) {
	w.log().Warn("job failed", "job", job.ID, "type", job.Type, "err", errMsg)
	if err := w.Repo.MarkFailed(ctx, job.ID, errMsg, w.now()); err != nil {
		w.log().Error("mark job failed failed", "job", job.ID, "err", err)
	}
}

// backoff is 2^attempts seconds, capped at ten minutes.
func backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	return time.Duration(sec) * time.Second
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		w.markFailed(ctx, job, errMsg)
		return
	}

	now := w.now()
	next := now.Add(backoff(attempts))
	w.log().Warn("job retry scheduled", "job", job.ID, "attempt", attempts, "run_at", next, "err", errMsg)
	if err := w.Repo.RetryLater(ctx, job.ID, attempts, next, errMsg, now); err != nil {
		w.log().Error("reschedule job failed", "job", job.ID, "err", err)
	}
}
