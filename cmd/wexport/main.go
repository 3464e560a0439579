package main

import (
	"fmt"
	"os"

	"github.com/matheus3301/wexport/internal/config"
	"github.com/matheus3301/wexport/internal/logging"
	"github.com/matheus3301/wexport/internal/store"
	"github.com/matheus3301/wexport/internal/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "wexport",
		Short:   "Convert WhatsApp chat exports into browsable HTML and JSON",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.wexport/config.toml)")

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = workspace.ConfigPath()
	}
	return config.Load(path)
}

func newLogger(dataset string) *zap.Logger {
	logger, err := logging.New(workspace.LogPath(), dataset)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openStore opens the shared index database. The index powers list and
// search only; conversion still works when it cannot be opened.
func openStore(logger *zap.Logger) *store.DB {
	db, err := store.Open(workspace.IndexDBPath())
	if err != nil {
		logger.Warn("index unavailable", zap.Error(err))
		return nil
	}
	if _, err := db.Migrate(); err != nil {
		logger.Warn("index migration failed", zap.Error(err))
		_ = db.Close()
		return nil
	}
	return db
}
