package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drivescope/drivescope-cli/internal/adapters/driven/auth"
	"github.com/drivescope/drivescope-cli/internal/adapters/driven/config/file"
)

var loginClientID string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize Drivescope with your Google account",
	Long: `Runs the browser-based OAuth flow and stores the resulting token
under the configuration directory. Drivescope only requests the
read-only Drive metadata scope; it never reads file contents and never
modifies anything in your Drive.

You need an OAuth client ID of type "Desktop app" from the Google Cloud
console, with the Drive API enabled on its project.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginClientID, "client-id", "", "OAuth client ID (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	clientID := loginClientID
	if clientID == "" {
		clientID = cfg.GetString(file.KeyClientID)
	}
	if clientID == "" {
		cmd.Print("Enter OAuth client ID: ")
		clientID = readLine(reader)
	}
	if clientID == "" {
		return errors.New("client ID is required")
	}

	clientSecret := cfg.GetString(file.KeyClientSecret)
	if clientSecret == "" {
		cmd.Print("Enter OAuth client secret (leave empty if none): ")
		clientSecret = readPassword()
		cmd.Println()
	}

	token, err := auth.Login(cmd.Context(), clientID, clientSecret)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	tokens, err := auth.NewTokenStore(configDir)
	if err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}
	if err := tokens.Save(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	if err := cfg.Set(file.KeyClientID, clientID); err != nil {
		return fmt.Errorf("saving client ID: %w", err)
	}
	if clientSecret != "" {
		if err := cfg.Set(file.KeyClientSecret, clientSecret); err != nil {
			return fmt.Errorf("saving client secret: %w", err)
		}
	}

	cmd.Println("Login successful. Token stored at", tokens.Path())
	return nil
}
