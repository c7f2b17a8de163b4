package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studygram-app/studygram/internal/daemon"
)

func init() {
	rootCmd.AddCommand(questsCmd)
	rootCmd.AddCommand(claimCmd)
}

var questsCmd = &cobra.Command{
	Use:   "quests",
	Short: "List today's quests",
	RunE:  runQuests,
}

func runQuests(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, _, err := d.Session.StartSession()
	if err != nil {
		return err
	}

	for _, q := range p.DailyQuests {
		state := "in progress"
		switch {
		case q.Claimed:
			state = "claimed"
		case q.Claimable():
			state = "ready to claim"
		}
		fmt.Printf("%-4s %-40s %3d/%-3d  +%d exp +%d gems  (%s)\n",
			q.ID, q.Text, q.Current, q.Target, q.RewardExperience, q.RewardGems, state)
	}
	return nil
}

var claimCmd = &cobra.Command{
	Use:   "claim QUEST_ID",
	Short: "Claim a completed quest's reward",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaim,
}

func runClaim(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, result, err := d.Session.ClaimQuest(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Claimed %q: +%d exp, +%d gems (balance %d)\n",
		result.Quest.Text, result.Quest.RewardExperience, result.Quest.RewardGems, p.Gems)
	if result.LevelUp.Leveled {
		fmt.Printf("LEVEL UP! You are now %s %s\n", result.LevelUp.Level.Icon, result.LevelUp.NewTitle)
	}
	return nil
}
