package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	apiVersionFlag string
	endpointFlag   string
	logLevelFlag   string
	logFormatFlag  string
	pageSizeFlag   int
)

var rootCmd = &cobra.Command{
	Use:   "shopify",
	Short: "Read and write a Shopify catalog through the GraphQL Admin API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Arguments are valid by now; runtime errors should not print usage.
		cmd.SilenceUsage = true
		return nil
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	Apply()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&apiVersionFlag, "api-version", "", "Admin API version (default $SHOPIFY_API_VERSION or 2025-07)")
	pf.StringVar(&endpointFlag, "endpoint", "", "GraphQL endpoint override (default $SHOPIFY_ADMIN_ENDPOINT)")
	pf.StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")
	pf.StringVar(&logFormatFlag, "log-format", "", "console or json (default $LOG_FORMAT)")
	pf.IntVar(&pageSizeFlag, "page-size", 0, "products per page (default $SHOPIFY_PAGE_SIZE or 50)")
}
