// Command soyu runs the software project business game.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/soyu/internal/config"
	"github.com/talgya/soyu/internal/persistence"
)

var rootCmd = &cobra.Command{
	Use:   "soyu",
	Short: "Run a software project into the ground, one hire at a time",
	Long: `soyu is a turn-based business game. You fund a project out of your own
wallet, hire developers, designers and a project manager, and try to ship every
feature before you or the project run out of money.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := addPersistentFlags(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("SOYU")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() error {
	rootCmd.PersistentFlags().StringP("config", "c", "soyu.yaml", "path to YAML config")
	rootCmd.PersistentFlags().String("db", "", "results database (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides config)")
	return bindPersistentFlags(rootCmd, "config", "db", "log-level")
}

// bindPersistentFlags makes viper read each named persistent flag under the
// same key.
func bindPersistentFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func registerCommands() {
	rootCmd.AddCommand(playCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(catalogueCmd())
	rootCmd.AddCommand(scoresCmd())
}

// loadConfig reads the YAML file and applies flag/env overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return cfg, err
	}
	if v := viper.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// setupLogging installs the default slog logger writing to w.
func setupLogging(w io.Writer, level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: l,
	}))
	slog.SetDefault(logger)
}

func openDB(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("database opened", "path", path)
	return db, nil
}
