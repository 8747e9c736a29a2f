package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/drivescope/drivescope-cli/internal/adapters/driven/auth"
	"github.com/drivescope/drivescope-cli/internal/adapters/driven/config/file"
	"github.com/drivescope/drivescope-cli/internal/adapters/driven/render/rst"
	"github.com/drivescope/drivescope-cli/internal/adapters/driven/storage/sqlite"
	googleconn "github.com/drivescope/drivescope-cli/internal/connectors/google"
	"github.com/drivescope/drivescope-cli/internal/core/domain"
	"github.com/drivescope/drivescope-cli/internal/core/ports/driven"
	"github.com/drivescope/drivescope-cli/internal/core/services"
	"github.com/drivescope/drivescope-cli/internal/logger"
)

var (
	auditRoot     string
	auditOut      string
	auditMaxDepth int
	auditRPS      float64
	auditBurst    int
	auditRetries  int
	auditPageSize int64
)

var auditCmd = &cobra.Command{
	Use:   "audit [root-id]",
	Short: "Walk a Drive folder tree and render its permission report",
	Args:  cobra.MaximumNArgs(1),
	Long: `Walks the configured Drive folder recursively, collects the sharing
permissions of every folder and file, and writes one reStructuredText
page per folder plus a flat file index into the output directory.

Subtrees the account cannot read are skipped and listed in the report;
only an unresolvable root folder or a write failure aborts the run.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditRoot, "root", "", "ID of the Drive folder to audit")
	auditCmd.Flags().StringVarP(&auditOut, "out", "o", "", "output directory for the report (default ./drive-report)")
	auditCmd.Flags().IntVar(&auditMaxDepth, "max-depth", 0, "maximum folder depth to descend, 0 for unlimited")
	auditCmd.Flags().Float64Var(&auditRPS, "rps", 0, "sustained Drive API requests per second")
	auditCmd.Flags().IntVar(&auditBurst, "burst", 0, "Drive API request burst size")
	auditCmd.Flags().IntVar(&auditRetries, "retries", 0, "attempts per Drive API call before skipping")
	auditCmd.Flags().Int64Var(&auditPageSize, "page-size", 0, "Drive API listing page size")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	rootID := auditRoot
	if len(args) > 0 {
		rootID = args[0]
	}
	if rootID == "" {
		rootID = cfg.GetString(file.KeyRootID)
	}
	if rootID == "" {
		return errors.New("no root folder: pass --root or run 'drivescope config set root_id <folder-id>'")
	}

	outDir := auditOut
	if outDir == "" {
		outDir = cfg.GetString(file.KeyOutputDir)
	}
	if outDir == "" {
		outDir = "drive-report"
	}

	tokenSource, err := buildTokenSource(cfg)
	if err != nil {
		return err
	}

	// Stop cleanly on Ctrl-C; an interrupted run leaves no index.rst, so
	// the report is recognisably incomplete.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := googleconn.NewDriveService(ctx, tokenSource)
	if err != nil {
		return fmt.Errorf("creating Drive client: %w", err)
	}

	limiter := googleconn.NewRateLimiter(googleconn.RateLimitConfig{
		RequestsPerSecond: floatSetting(cmd, "rps", auditRPS, cfg, file.KeyRateLimitRPS),
		BurstSize:         intSetting(cmd, "burst", auditBurst, cfg, file.KeyRateBurst),
	})
	lister := googleconn.NewDrive(svc, limiter, int64(intSetting(cmd, "page-size", int(auditPageSize), cfg, file.KeyPageSize)))

	walkerCfg := services.WalkerConfig{
		MaxDepth: intSetting(cmd, "max-depth", auditMaxDepth, cfg, file.KeyMaxDepth),
		Retry:    retrySettings(cmd, cfg),
	}
	walker := services.NewWalker(lister, walkerCfg)

	var history driven.AuditStore
	if store, err := sqlite.NewStore(historyDir()); err != nil {
		// History is a convenience; the report itself must still run.
		logger.Warn("audit history unavailable: %v", err)
	} else {
		defer store.Close()
		history = store
	}

	audit := services.NewAudit(walker, rst.NewRenderer(), history)

	cmd.Printf("Auditing folder %s...\n", rootID)
	run, tree, err := audit.Run(ctx, rootID, outDir)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	printSummary(cmd, run, tree)
	return nil
}

// buildTokenSource loads the stored token and wraps it in a refreshing,
// persisting token source.
func buildTokenSource(cfg *file.ConfigStore) (oauth2.TokenSource, error) {
	clientID := cfg.GetString(file.KeyClientID)
	if clientID == "" {
		return nil, errors.New("not logged in: run 'drivescope login' first")
	}

	tokens, err := auth.NewTokenStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}

	token, err := tokens.Load()
	if err != nil {
		if errors.Is(err, domain.ErrNoCredentials) {
			return nil, errors.New("not logged in: run 'drivescope login' first")
		}
		return nil, err
	}

	oauthCfg := auth.OAuthConfig(clientID, cfg.GetString(file.KeyClientSecret), "")
	return tokens.TokenSource(oauthCfg, token), nil
}

func retrySettings(cmd *cobra.Command, cfg *file.ConfigStore) services.RetryConfig {
	retry := services.DefaultRetryConfig()
	if n := intSetting(cmd, "retries", auditRetries, cfg, file.KeyRetryAttempts); n > 0 {
		retry.MaxAttempts = n
	}
	if ms := cfg.GetInt(file.KeyRetryBaseMS); ms > 0 {
		retry.BaseDelay = time.Duration(ms) * time.Millisecond
	}
	if ms := cfg.GetInt(file.KeyRetryMaxMS); ms > 0 {
		retry.MaxDelay = time.Duration(ms) * time.Millisecond
	}
	return retry
}

// intSetting resolves an integer option: explicit flag, then config
// file, then the flag's default.
func intSetting(cmd *cobra.Command, flag string, flagValue int, cfg *file.ConfigStore, key string) int {
	if cmd.Flags().Changed(flag) {
		return flagValue
	}
	if v := cfg.GetInt(key); v != 0 {
		return v
	}
	return flagValue
}

func floatSetting(cmd *cobra.Command, flag string, flagValue float64, cfg *file.ConfigStore, key string) float64 {
	if cmd.Flags().Changed(flag) {
		return flagValue
	}
	if v := cfg.GetFloat(key); v != 0 {
		return v
	}
	return flagValue
}

func printSummary(cmd *cobra.Command, run *domain.Run, tree *domain.Tree) {
	cmd.Println()
	cmd.Printf("Report written to %s\n", run.OutputDir)
	cmd.Printf("  Folders: %d\n", run.Folders)
	cmd.Printf("  Files:   %d\n", run.Files)
	cmd.Printf("  Pages:   %d\n", run.Pages)

	skipped := tree.SkippedNodes()
	if len(skipped) == 0 {
		cmd.Println("  Status:  complete")
		return
	}

	cmd.Printf("  Status:  partial (%d subtrees skipped)\n", len(skipped))
	cmd.Println()
	cmd.Println("Skipped subtrees:")
	for _, s := range skipped {
		cmd.Printf("  %s: %s\n", s.Path, s.Reason)
	}
}

func historyDir() string {
	if configDir == "" {
		return "" // store resolves ~/.drivescope/data itself
	}
	return filepath.Join(configDir, "data")
}
