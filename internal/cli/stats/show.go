package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cleancity/pkg/utils"
)

var showCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show user statistics",
	Long:  "Display cumulative statistics, badges, streak and rank for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := ""
		if len(args) > 0 {
			userID = args[0]
		} else {
			userID = viper.GetString("user.id")
		}
		if userID == "" {
			return fmt.Errorf("user id required (log in or pass it as an argument)")
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/users/%s/stats",
			viper.GetString("server.host"),
			viper.GetInt("server.port"),
			userID)

		resp, err := http.Get(serverURL)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result struct {
			Success bool `json:"success"`
			Data    struct {
				TotalPoints   int        `json:"total_points"`
				ItemsScanned  int        `json:"items_scanned"`
				ItemsRecycled int        `json:"items_recycled"`
				CompostItems  int        `json:"compost_items"`
				EwasteItems   int        `json:"ewaste_items"`
				CO2SavedKg    float64    `json:"co2_saved_kg"`
				Badges        []string   `json:"badges"`
				DailyStreak   int        `json:"daily_streak"`
				LastScanDate  *time.Time `json:"last_scan_date"`
				Level         int        `json:"level"`
				Rank          string     `json:"rank"`
			} `json:"data"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
		if !result.Success {
			return fmt.Errorf("request failed: %s", result.Error)
		}

		d := result.Data
		fmt.Printf("Statistics for %s:\n\n", userID)
		fmt.Printf("  Points:        %d (level %d", d.TotalPoints, d.Level)
		if d.Rank != "" {
			fmt.Printf(", %s", d.Rank)
		}
		fmt.Println(")")
		fmt.Printf("  Items scanned: %d\n", d.ItemsScanned)
		fmt.Printf("  Recycled:      %d   Compost: %d   E-waste: %d\n",
			d.ItemsRecycled, d.CompostItems, d.EwasteItems)
		fmt.Printf("  CO2 saved:     %.1f kg\n", d.CO2SavedKg)
		fmt.Printf("  Daily streak:  %d\n", d.DailyStreak)
		if d.LastScanDate != nil {
			fmt.Printf("  Last scan:     %s (%s)\n",
				utils.FormatTimestamp(*d.LastScanDate), utils.TimeAgo(*d.LastScanDate))
		}
		if len(d.Badges) > 0 {
			fmt.Printf("  Badges:        %s\n", strings.Join(d.Badges, ", "))
		}
		return nil
	},
}

func init() {
	StatsCmd.AddCommand(showCmd)
}
