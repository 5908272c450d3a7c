package bins

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Find nearby bins",
	Long:  "List the closest active bins for a location, optionally filtered by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		category, _ := cmd.Flags().GetString("category")
		radius, _ := cmd.Flags().GetFloat64("radius-km")

		params := url.Values{}
		params.Set("lat", fmt.Sprintf("%f", lat))
		params.Set("lon", fmt.Sprintf("%f", lon))
		if category != "" {
			params.Set("category", category)
		}
		if radius > 0 {
			params.Set("radius_km", fmt.Sprintf("%f", radius))
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/bins/nearby?%s",
			viper.GetString("server.host"),
			viper.GetInt("server.port"),
			params.Encode())

		resp, err := http.Get(serverURL)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result struct {
			Success bool `json:"success"`
			Data    struct {
				Bins []struct {
					Bin struct {
						Name    string `json:"name"`
						Address string `json:"address"`
						Status  string `json:"status"`
					} `json:"bin"`
					DistanceKm float64 `json:"distance_km"`
				} `json:"bins"`
				Count int `json:"count"`
			} `json:"data"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
		if !result.Success {
			return fmt.Errorf("request failed: %s", result.Error)
		}

		if result.Data.Count == 0 {
			fmt.Println("No bins found")
			return nil
		}

		for i, rb := range result.Data.Bins {
			fmt.Printf("%d. %s (%.2f km)\n", i+1, rb.Bin.Name, rb.DistanceKm)
			fmt.Printf("   %s [%s]\n", rb.Bin.Address, rb.Bin.Status)
		}
		return nil
	},
}

func init() {
	nearbyCmd.Flags().Float64("lat", 0, "Latitude")
	nearbyCmd.Flags().Float64("lon", 0, "Longitude")
	nearbyCmd.Flags().String("category", "", "Waste category filter (e.g. RECYCLE)")
	nearbyCmd.Flags().Float64("radius-km", 0, "Maximum search radius in km")
	nearbyCmd.MarkFlagRequired("lat")
	nearbyCmd.MarkFlagRequired("lon")
	BinsCmd.AddCommand(nearbyCmd)
}
