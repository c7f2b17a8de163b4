package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studygram-app/studygram/internal/app/progression"
	"github.com/studygram-app/studygram/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, streak, gems, and today's quests",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, report, err := d.Session.StartSession()
	if err != nil {
		return err
	}

	level := progression.LevelFor(p.Experience)
	fmt.Printf("%s %s — %s %s\n", p.Avatar, p.Name, level.Icon, level.Title)
	fmt.Printf("Experience: %d", p.Experience)
	if next := progression.ExperienceToNext(p.Experience); next > 0 {
		fmt.Printf(" (%d to next title)", next)
	}
	fmt.Println()
	fmt.Printf("Streak:     %d day(s)", p.StreakCount)
	if report.StreakBroken {
		fmt.Printf("  (reset after %d days away)", report.DaysAway)
	}
	fmt.Println()
	fmt.Printf("Gems:       %d\n", p.Gems)
	fmt.Printf("Badges:     %d\n", len(p.UnlockedBadgeIDs))

	fmt.Println("\nToday's quests:")
	for _, q := range p.DailyQuests {
		marker := " "
		switch {
		case q.Claimed:
			marker = "✓"
		case q.Claimable():
			marker = "!"
		}
		bar := progressBar(q.ProgressPct(), 10)
		fmt.Printf("  [%s] %-40s %s %d/%d\n", marker, q.Text, bar, q.Current, q.Target)
	}
	return nil
}

// progressBar renders a width-character unicode bar for a percentage.
func progressBar(pct float64, width int) string {
	filled := int(pct / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
