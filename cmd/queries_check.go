package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shopify.GO/graphql"
)

var queriesCheckCmd = &cobra.Command{
	Use:   "queries:check",
	Short: "Validate every GraphQL document against the embedded Admin schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failures := graphql.ValidateAll()
		names := graphql.DocumentNames()
		for _, name := range names {
			if err := failures[name]; err != nil {
				fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
				continue
			}
			fmt.Fprintf(out, "ok   %s\n", name)
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d of %d documents failed validation", len(failures), len(names))
		}
		fmt.Fprintf(out, "All %d documents are valid\n", len(names))
		return nil
	},
}

func init() {
	Register(queriesCheckCmd)
}
