package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/jobs"
	"inkwell/internal/journal"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(true)
		if err != nil {
			return err
		}
		defer rt.close()
		rt.logger.Info("schema up to date", "driver", rt.cfg.DatabaseDriver)
		return nil
	},
}

var (
	streakUser  uint64
	streakToday string
	streakJSON  bool
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Print a user's writing streak",
	Example: `
inkwell streak --user 1
inkwell streak --user 1 --today 2024-01-15 --json
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(false)
		if err != nil {
			return err
		}
		defer rt.close()

		today := journal.Today(timeNow(), rt.cfg.Timezone)
		if streakToday != "" {
			if today, err = journal.ParseDay(streakToday); err != nil {
				return err
			}
		}

		rep, err := rt.store(nil).Streak(cmd.Context(), journal.NewSession(streakUser), today)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if streakJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		fmt.Fprintf(out, "current streak: %d days (longest %d, %d days written)\n", rep.Current, rep.Longest, rep.TotalDays)
		if rep.CurrentMilestone != nil {
			fmt.Fprintf(out, "milestone: %s\n", rep.CurrentMilestone.Label)
		}
		if rep.NextMilestone != nil {
			fmt.Fprintf(out, "next: %s at %d days (%.0f%%)\n", rep.NextMilestone.Label, rep.NextMilestone.Days, rep.Progress)
		}
		if !rep.WroteToday {
			fmt.Fprintln(out, "nothing written today yet")
		}
		return nil
	},
}

var (
	writeUser uint64
	writeDay  string
	writeMood string
	writeTags []string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write an entry from stdin, autosaving as lines arrive",
	Example: `
echo "Slow morning, long walk." | inkwell write --user 1 --tag walk
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(false)
		if err != nil {
			return err
		}
		defer rt.close()

		mood, err := journal.ParseMood(writeMood)
		if err != nil {
			return err
		}
		day := journal.Today(timeNow(), rt.cfg.Timezone)
		if writeDay != "" {
			if day, err = journal.ParseDay(writeDay); err != nil {
				return err
			}
		}

		store := rt.store(nil)
		sess := journal.NewSession(writeUser)
		w := &entryWriter{store: store, sess: sess, day: day, mood: mood, tags: writeTags}

		saver := journal.NewAutosaver(rt.cfg.AutosaveDelay, w.save, rt.logger)
		defer saver.Close()
		if err := feed(cmd.InOrStdin(), saver); err != nil {
			return err
		}
		if err := saver.Flush(cmd.Context()); err != nil {
			return err
		}
		if w.id == "" {
			return errors.New("nothing to save")
		}

		jobsRepo := &jobs.Repo{DB: rt.db}
		if err := jobsRepo.EnqueueStreakReview(cmd.Context(), writeUser, journal.Today(timeNow(), rt.cfg.Timezone), timeNow()); err != nil {
			rt.logger.Warn("enqueue streak review failed", "user", writeUser, "err", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), w.id)
		return nil
	},
}

// feed hands the growing text to the autosaver, one line at a time.
func feed(r io.Reader, saver *journal.Autosaver) error {
	var b strings.Builder
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sc.Text())
		saver.Edit(b.String())
	}
	return sc.Err()
}

// entryWriter creates the entry on the first save and updates it afterwards.
type entryWriter struct {
	store *journal.Store
	sess  *journal.Session
	day   journal.Day
	mood  *journal.Mood
	tags  []string
	id    string
}

// Hashtags typed into the text are added to the --tag labels.
func (w *entryWriter) save(ctx context.Context, content string) error {
	tags := append(append([]string{}, w.tags...), journal.ExtractTags(content)...)
	if w.id == "" {
		id, outcome, err := w.store.CreateEntry(ctx, w.sess, journal.NewEntry{Day: w.day, Content: content, Mood: w.mood, Tags: tags})
		if err != nil {
			return err
		}
		if outcome != journal.Applied {
			return fmt.Errorf("create entry: %s", outcome)
		}
		w.id = id
		return nil
	}
	_, outcome, err := w.store.UpdateEntry(ctx, w.sess, w.id, content, w.mood, tags)
	if err != nil {
		return err
	}
	if outcome != journal.Applied {
		return fmt.Errorf("update entry: %s", outcome)
	}
	return nil
}

func init() {
	streakCmd.Flags().Uint64Var(&streakUser, "user", 0, "user id")
	streakCmd.Flags().StringVar(&streakToday, "today", "", "reference day (YYYY-MM-DD), default today")
	streakCmd.Flags().BoolVar(&streakJSON, "json", false, "print the report as JSON")
	_ = streakCmd.MarkFlagRequired("user")

	writeCmd.Flags().Uint64Var(&writeUser, "user", 0, "user id")
	writeCmd.Flags().StringVar(&writeDay, "day", "", "day of the entry (YYYY-MM-DD), default today")
	writeCmd.Flags().StringVar(&writeMood, "mood", "", "mood of the entry")
	writeCmd.Flags().StringSliceVar(&writeTags, "tag", nil, "tag (repeatable)")
	_ = writeCmd.MarkFlagRequired("user")
}
