package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long:  "Create a new CleanCity account with username and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")

		if username == "" {
			fmt.Print("Username: ")
			fmt.Scanln(&username)
		}

		fmt.Print("Password: ")
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		fmt.Print("Confirm password: ")
		confirm, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		if string(password) != string(confirm) {
			return fmt.Errorf("passwords do not match")
		}

		body := map[string]string{
			"username": username,
			"password": string(password),
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/auth/register",
			viper.GetString("server.host"),
			viper.GetInt("server.port"))

		resp, err := http.Post(serverURL, "application/json", bytes.NewReader(jsonBody))
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] == true {
			fmt.Println("✓ Account created successfully!")
			fmt.Printf("  Username: %s\n", username)
			fmt.Println("\nNext: cleancity auth login --username " + username)
		} else {
			return fmt.Errorf("registration failed: %v", result["error"])
		}

		return nil
	},
}

func init() {
	registerCmd.Flags().String("username", "", "Username")
	AuthCmd.AddCommand(registerCmd)
}
