package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	googleconn "github.com/drivescope/drivescope-cli/internal/connectors/google"
	"github.com/drivescope/drivescope-cli/internal/logger"
)

const (
	// Loopback port range for the redirect listener. Google accepts any
	// loopback port, but a bounded range keeps firewall prompts rare.
	callbackPortStart = 8750
	callbackPortEnd   = 8780

	// How long to wait for the user to finish the consent screen.
	loginTimeout = 5 * time.Minute
)

// OAuthConfig builds the oauth2 configuration for the Drive metadata scope.
func OAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURI,
		Scopes:       []string{googleconn.ScopeDriveMetadataReadonly},
	}
}

// Login runs the full browser-based authorization code flow with PKCE
// and returns the resulting token. The caller persists it.
func Login(ctx context.Context, clientID, clientSecret string) (*oauth2.Token, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}

	port, err := findAvailablePort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return nil, fmt.Errorf("finding callback port: %w", err)
	}

	state := generateState()
	verifier := generateCodeVerifier()
	challenge := generateCodeChallenge(verifier)

	server := newCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop()

	cfg := OAuthConfig(clientID, clientSecret, server.RedirectURI())

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	fmt.Println("Opening browser for Google authorization...")
	fmt.Printf("If the browser does not open, visit:\n\n  %s\n\n", authURL)
	if err := openBrowser(authURL); err != nil {
		logger.Warn("could not open browser: %v", err)
	}

	code, err := server.WaitForCode(ctx, loginTimeout)
	if err != nil {
		return nil, fmt.Errorf("waiting for authorization: %w", err)
	}

	token, err := cfg.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", verifier),
	)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	return token, nil
}
