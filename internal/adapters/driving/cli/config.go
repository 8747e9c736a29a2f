package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/drivescope/drivescope-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Drivescope configuration",
	Long: `View and set configuration values stored in the TOML config file.

Common keys:
  root_id         Drive folder ID audited when --root is not given
  output_dir      default report output directory
  max_depth       maximum folder depth, 0 for unlimited
  retry_attempts  attempts per Drive API call
  rate_limit_rps  sustained Drive API requests per second
  page_size       Drive API listing page size`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	value, ok := cfg.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	key, raw := args[0], args[1]
	if err := cfg.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cmd.Println(cfg.Path())
	return nil
}

// parseValue keeps numeric and boolean config values typed in the TOML
// file so the typed getters can read them back. Whole numbers stay
// integers; fractional ones (rate_limit_rps) become floats.
func parseValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
