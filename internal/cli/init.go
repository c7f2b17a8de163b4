package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studygram-app/studygram/internal/daemon"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init NAME",
	Short: "Create your study profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.Session.Init(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s %s!\n", p.Avatar, p.Name)
	fmt.Printf("You start with %d gems and %d daily quests. Good luck!\n",
		p.Gems, len(p.DailyQuests))
	return nil
}
