// Package review implements the terminal weekly review subcommand.
package review

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomohiko/kokorolog/internal/aggregate"
	"github.com/tomohiko/kokorolog/internal/conf"
	"github.com/tomohiko/kokorolog/internal/datastore"
	"github.com/tomohiko/kokorolog/internal/journal"
)

// Command returns the review subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Print the weekly review and pending next actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings, days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Review window in days (defaults to journal.reviewdays)")

	return cmd
}

func run(settings *conf.Settings, days int) error {
	if days < 1 {
		days = settings.Journal.ReviewDays
	}

	ds := datastore.New(settings, nil)
	if ds == nil {
		return fmt.Errorf("no database backend enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer ds.Close()

	today := time.Now().In(settings.TimeLocation())

	fetchDays := settings.Journal.LookbackDays
	if days > fetchDays {
		fetchDays = days
	}
	since := today.AddDate(0, 0, -fetchDays).Format(journal.DateFormat)

	entries, err := ds.EntriesSince(since)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}

	review := aggregate.WeeklyReview(entries, days, today)
	printReview(&review)

	actions := aggregate.NextActions(entries, settings.Journal.MaxNextActions)
	printActions(actions)

	return nil
}

func printReview(review *aggregate.Review) {
	fmt.Printf("Weekly review (last %d days, since %s)\n", review.WindowDays, review.Since)
	if review.TopEmotion == nil {
		fmt.Println("  no entries in this window yet")
		return
	}
	fmt.Printf("  days with entries: %d\n", review.DistinctDays)
	fmt.Printf("  top emotion:       %s\n", *review.TopEmotion)
	fmt.Printf("  avg intensity:     %.1f\n", *review.AvgIntensity)
}

func printActions(actions []aggregate.ActionItem) {
	fmt.Println()
	fmt.Println("Pending next actions")
	if len(actions) == 0 {
		fmt.Println("  nothing pending")
		return
	}
	for _, a := range actions {
		fmt.Printf("  [%s] %s (from: %s)\n", a.EntryDate, a.NextAction, a.Event)
	}
}
