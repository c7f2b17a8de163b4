package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studygram-app/studygram/internal/app/progression"
	"github.com/studygram-app/studygram/internal/daemon"
)

func init() {
	rootCmd.AddCommand(badgesCmd)
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show the badge catalog and what you've unlocked",
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.Session.Profile()
	if err != nil {
		return err
	}

	for _, b := range progression.AllBadges() {
		mark := " "
		if p.HasBadge(b.ID) {
			mark = "✓"
		}
		fmt.Printf("[%s] %s %-14s %s\n", mark, b.Icon, b.Name, b.Description)
	}
	return nil
}
