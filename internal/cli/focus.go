package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studygram-app/studygram/internal/daemon"
)

func init() {
	focusCmd.Flags().StringVar(&focusSubject, "subject", "", "Subject studied")
	rootCmd.AddCommand(focusCmd)
}

var focusSubject string

var focusCmd = &cobra.Command{
	Use:   "focus MINUTES",
	Short: "Log a completed focus session",
	Args:  cobra.ExactArgs(1),
	RunE:  runFocus,
}

func runFocus(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[0])
	if err != nil || minutes <= 0 {
		return fmt.Errorf("minutes must be a positive number, got %q", args[0])
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if _, _, err := d.Session.StartSession(); err != nil {
		return err
	}
	p, _, err := d.Session.CompleteFocus(focusSubject, minutes)
	if err != nil {
		return err
	}

	fmt.Printf("Logged %d minute(s) of focus (+%d exp).\n", minutes, minutes*2)
	if q := p.Quest("q1"); q != nil && q.Claimable() {
		fmt.Println("Focus quest complete — run `studygram claim q1` to collect your reward.")
	}
	fmt.Printf("Lifetime focus: %d minute(s)\n", p.LifetimeFocusMinutes)
	return nil
}
