package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authTestCmd = &cobra.Command{
	Use:     "auth:test <store-name> <access-token>",
	Short:   "Check that the store and token can read the catalog",
	Example: "  shopify auth:test my-store shpat_xxxxxxxxxxxxxxxxxxxx",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Testing connection to Shopify store: %s\n", s.store)
		if err := checkAuth(cmd, s); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Authentication/Connection Error: %v\n", err)
			fmt.Fprintln(out, "\nTroubleshooting tips:")
			fmt.Fprintln(out, "1. Make sure your access token is valid and has the right permissions")
			fmt.Fprintln(out, "2. Ensure the store name is correct (without .myshopify.com)")
			fmt.Fprintln(out, "3. Check that your access token has write_products scope for creating products")
			return err
		}
		return nil
	},
}

func checkAuth(cmd *cobra.Command, s *session) error {
	out := cmd.OutOrStdout()
	f := s.fetcher()

	shop, err := f.Shop(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Shop: %s (%s)\n", shop.Name, shop.MyshopifyDomain)

	fmt.Fprintln(out, "Testing read permissions...")
	listing := f.FetchAll(cmd.Context())
	if err := listing.Failure(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Successfully connected! Found %d products\n", len(listing.Items))
	if len(listing.Items) > 0 {
		fmt.Fprintf(out, "Sample product: %s\n", listing.Items[0].Title)
	}
	return nil
}

func init() {
	Register(authTestCmd)
}
