// Package auth provides Google OAuth login and token persistence.
//
// Tokens are stored as JSON under ~/.drivescope/token.json with 0600
// permissions. The token source returned by TokenStore transparently
// refreshes expired access tokens and persists the refreshed token so
// later runs skip the browser flow.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
)

// TokenStore persists OAuth tokens on disk.
type TokenStore struct {
	filePath string
}

// NewTokenStore creates a token store rooted at configDir.
// If configDir is empty, defaults to ~/.drivescope.
func NewTokenStore(configDir string) (*TokenStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".drivescope")
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &TokenStore{filePath: filepath.Join(configDir, "token.json")}, nil
}

// Path returns the token file path.
func (ts *TokenStore) Path() string {
	return ts.filePath
}

// Save writes the token to disk.
func (ts *TokenStore) Save(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(ts.filePath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Load reads the token from disk.
// Returns domain.ErrNoCredentials if no token has been saved.
func (ts *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(ts.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNoCredentials
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	return &token, nil
}

// Delete removes the stored token.
func (ts *TokenStore) Delete() error {
	if err := os.Remove(ts.filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// TokenSource returns an oauth2.TokenSource that refreshes through cfg
// and writes every refreshed token back to disk.
func (ts *TokenStore) TokenSource(cfg *oauth2.Config, token *oauth2.Token) oauth2.TokenSource {
	return &persistingTokenSource{
		store: ts,
		src:   cfg.TokenSource(context.Background(), token),
		last:  token,
	}
}

// persistingTokenSource wraps an oauth2.TokenSource and saves tokens
// whenever the underlying source hands out a new one.
type persistingTokenSource struct {
	mu    sync.Mutex
	store *TokenStore
	src   oauth2.TokenSource
	last  *oauth2.Token
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token, err := p.src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoCredentials, err)
	}

	if p.last == nil || token.AccessToken != p.last.AccessToken {
		// Refresh happened; best-effort persist so the next run reuses it.
		_ = p.store.Save(token)
		p.last = token
	}
	return token, nil
}
