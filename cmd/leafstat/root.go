package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ba0f3/leafstat/internal/config"
	"github.com/ba0f3/leafstat/internal/logging"
	"github.com/ba0f3/leafstat/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leafstat",
	Short: "Leaf index profiling and n-gram tokenizer",
	Long: `Profile the leaf files of an n-gram search index and tokenize text into
the keys it is built from.

Offender reports rank leaves by size percentile and surface the largest five
percent; words and ngrams show how a query is split and encoded.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func getIndexName() string {
	name, _ := rootCmd.PersistentFlags().GetString("index")
	if name == "" {
		return "index"
	}
	return name
}

func getStorePath() (string, error) {
	return store.GetDefaultDbPath(getIndexName())
}

func openStore() (*store.Store, error) {
	path, err := getStorePath()
	if err != nil {
		return nil, err
	}
	return store.NewStore(path)
}

func initRoot() {
	config.CurrentIndexName = getIndexName()
}

// loadSettings reads the index config and builds the logger; persistent
// flags override the config's log settings.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	initRoot()
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// readText joins args with spaces, or reads stdin when there are none or the
// only arg is "-". A single trailing newline from stdin is dropped.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("index", "", "Use named index (default: index)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")
}
