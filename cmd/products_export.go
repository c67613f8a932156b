package cmd

import (
	"github.com/spf13/cobra"

	"shopify.GO/service/export"
)

var exportOpts exportOptions

var productsExportCmd = &cobra.Command{
	Use:   "products:export <store-name> <access-token>",
	Short: "Read the whole catalog and write it to JSON, SQL, Redis or Elasticsearch",
	Long: `Read every product once and write the normalized records to each --sink.
A listing that stops early is not exported unless --allow-partial is given;
a partial export never deletes rows or keys the sinks already hold.`,
	Example: "  shopify products:export my-store shpat_xxx --sink sql --dsn catalog.db --sink json -o catalog.json",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		sinks, err := openSinks(s, &exportOpts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer export.CloseAll(sinks...)

		reports, batch, err := exportCatalog(cmd.Context(), s, &exportOpts, sinks)
		if batch != nil {
			// Keep stdout clean when the JSON document goes there.
			w := cmd.OutOrStdout()
			if jsonToStdout(&exportOpts) {
				w = cmd.ErrOrStderr()
			}
			printReports(w, batch, reports)
		}
		return err
	},
}

func jsonToStdout(o *exportOptions) bool {
	if o.output != "" && o.output != "-" {
		return false
	}
	for _, name := range o.sinks {
		if name == "json" {
			return true
		}
	}
	return false
}

func init() {
	bindExportFlags(productsExportCmd.Flags(), &exportOpts, []string{"json"})
	Register(productsExportCmd)
}
