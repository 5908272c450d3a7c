package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard",
	Long:  "Display the top users by total points",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		timeframe, _ := cmd.Flags().GetString("timeframe")

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/leaderboard?limit=%d&timeframe=%s",
			viper.GetString("server.host"),
			viper.GetInt("server.port"),
			limit, timeframe)

		resp, err := http.Get(serverURL)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result struct {
			Success bool `json:"success"`
			Data    struct {
				Timeframe string `json:"timeframe"`
				Entries   []struct {
					Rank        int    `json:"rank"`
					UserID      string `json:"user_id"`
					Username    string `json:"username"`
					TotalPoints int    `json:"total_points"`
					Level       int    `json:"level"`
					Tier        string `json:"tier"`
				} `json:"entries"`
				TotalUsers int `json:"total_users"`
			} `json:"data"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
		if !result.Success {
			return fmt.Errorf("request failed: %s", result.Error)
		}

		fmt.Printf("Leaderboard (%s, %d users):\n\n", result.Data.Timeframe, result.Data.TotalUsers)
		for _, e := range result.Data.Entries {
			name := e.Username
			if name == "" {
				name = e.UserID
			}
			fmt.Printf("%3d. %-24s %6d pts  L%d  %s\n", e.Rank, name, e.TotalPoints, e.Level, e.Tier)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().Int("limit", 10, "Number of entries")
	leaderboardCmd.Flags().String("timeframe", "all_time", "all_time, weekly, or monthly")
	StatsCmd.AddCommand(leaderboardCmd)
}
