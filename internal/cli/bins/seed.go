package bins

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type seedBin struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Address   string   `json:"address"`
	Status    string   `json:"status"`
	Capacity  int      `json:"capacity"`
	Accepts   []string `json:"accepts"`
	Timings   string   `json:"timings"`
}

// sampleBins is the demo data set used for local development.
var sampleBins = []seedBin{
	{
		Name:      "Central Park Recycling Station",
		Type:      "recycle",
		Latitude:  40.7829,
		Longitude: -73.9654,
		Address:   "Central Park, New York, NY",
		Status:    "active",
		Capacity:  75,
		Accepts:   []string{"RECYCLE"},
		Timings:   "6 AM - 10 PM",
	},
	{
		Name:      "Downtown Compost Center",
		Type:      "compost",
		Latitude:  40.7489,
		Longitude: -73.9680,
		Address:   "Downtown Manhattan, NY",
		Status:    "active",
		Capacity:  60,
		Accepts:   []string{"COMPOST"},
		Timings:   "24/7",
	},
	{
		Name:      "Brooklyn E-Waste Drop-off",
		Type:      "ewaste",
		Latitude:  40.6782,
		Longitude: -73.9442,
		Address:   "Brooklyn, NY",
		Status:    "active",
		Capacity:  90,
		Accepts:   []string{"EWASTE", "HAZARDOUS"},
		Timings:   "9 AM - 6 PM",
	},
	{
		Name:      "Queens General Waste Hub",
		Type:      "landfill",
		Latitude:  40.7282,
		Longitude: -73.7949,
		Address:   "Queens, NY",
		Status:    "active",
		Capacity:  45,
		Accepts:   []string{"LANDFILL"},
		Timings:   "24/7",
	},
	{
		Name:      "Bronx Recycling Point",
		Type:      "recycle",
		Latitude:  40.8448,
		Longitude: -73.8648,
		Address:   "Bronx, NY",
		Status:    "full",
		Capacity:  100,
		Accepts:   []string{"RECYCLE"},
		Timings:   "7 AM - 9 PM",
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed sample bin locations",
	Long:  "Register the built-in sample bins against the server (requires an admin token)",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in, run 'cleancity auth login' first")
		}

		baseURL := fmt.Sprintf("http://%s:%d/api/v1/bins",
			viper.GetString("server.host"),
			viper.GetInt("server.port"))

		created := 0
		for _, bin := range sampleBins {
			jsonBody, _ := json.Marshal(bin)
			req, err := http.NewRequest(http.MethodPost, baseURL, bytes.NewReader(jsonBody))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if resp.StatusCode != 201 {
				var result map[string]interface{}
				json.Unmarshal(respBody, &result)
				return fmt.Errorf("seed failed for %q: %v", bin.Name, result["error"])
			}
			created++
			fmt.Printf("✓ %s\n", bin.Name)
		}

		fmt.Printf("\nSeeded %d bin locations\n", created)
		return nil
	},
}

func init() {
	BinsCmd.AddCommand(seedCmd)
}
