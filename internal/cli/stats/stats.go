package stats

import "github.com/spf13/cobra"

var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Statistics commands",
	Long:  "View user statistics and leaderboards",
}

func init() {
	// Commands added in show.go and leaderboard.go
}
