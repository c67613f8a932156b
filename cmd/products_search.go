package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shopify.GO/config"
	"shopify.GO/service/export"
)

var (
	searchHost   string
	searchPrefix string
	searchSize   int
)

var productsSearchCmd = &cobra.Command{
	Use:     "products:search <store-name> <query>...",
	Short:   "Search a catalog exported with --sink search",
	Example: "  shopify products:search my-store elbaite --es-host http://localhost:9200",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appConfig()
		log, err := newLogger(app)
		if err != nil {
			return err
		}
		defer log.Sync()

		host := firstNonEmpty(searchHost, app.ElasticsearchHost)
		if host == "" {
			return fmt.Errorf("--es-host or ELASTICSEARCH_HOST is required")
		}
		client, err := config.NewSearchClient(host)
		if err != nil {
			return err
		}

		store := args[0]
		query := strings.Join(args[1:], " ")
		prefix := firstNonEmpty(searchPrefix, app.ElasticsearchIndexPrefix)
		res, err := export.Search(cmd.Context(), client, prefix, store, query, searchSize)
		if err != nil {
			return fmt.Errorf("search %s: %w", export.IndexName(prefix, store), err)
		}

		out := cmd.OutOrStdout()
		if len(res.Documents) == 0 {
			fmt.Fprintf(out, "No products match %q\n", query)
			return nil
		}
		for _, d := range res.Documents {
			fmt.Fprintf(out, "%-40s %-20s %s\n", d.Title, strings.Join(d.SKUs, ","), d.LegacyID)
		}
		fmt.Fprintf(out, "Showing %d of %d matches\n", len(res.Documents), res.Total)
		return nil
	},
}

func init() {
	f := productsSearchCmd.Flags()
	f.StringVar(&searchHost, "es-host", "", "Elasticsearch URL (default $ELASTICSEARCH_HOST)")
	f.StringVar(&searchPrefix, "index-prefix", "", "Index prefix used at export (default $ELASTICSEARCH_INDEX_PREFIX)")
	f.IntVar(&searchSize, "size", 20, "Maximum matches to print")
	Register(productsSearchCmd)
}
