package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/client-dashboard/internal/config"
	"github.com/sells-group/client-dashboard/internal/db"
	"github.com/sells-group/client-dashboard/internal/fetch"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "client-dashboard",
	Short: "Client stage dashboard",
	Long:  "Lists recently progressed clients by pipeline stage, shows per-client message history, and exports client lists.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newFetcher validates the loaded config and builds a Fetcher that opens a
// fresh connection per query.
func newFetcher(c *config.Config) (*fetch.Fetcher, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	connect, err := db.NewConnector(c.Credentials())
	if err != nil {
		return nil, err
	}
	return fetch.New(connect, fetch.WithTimeout(c.Fetch.QueryTimeout)), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
