package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"shopify.GO/model/entity/product"
	"shopify.GO/service/catalog"
)

var (
	listJSON   bool
	listStrict bool
)

var productsListCmd = &cobra.Command{
	Use:     "products:list <store-name> <access-token>",
	Short:   "List every product in the store",
	Example: "  shopify products:list my-store shpat_xxxxxxxxxxxxxxxxxxxx",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		out := cmd.OutOrStdout()
		if !listJSON {
			fmt.Fprintf(out, "Connecting to Shopify store: %s\n", s.store)
		}

		listing := s.fetcher().FetchAll(cmd.Context())
		if !listing.Complete() {
			if listStrict || len(listing.Items) == 0 {
				return fmt.Errorf("fetch products: %w", listing.Failure())
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: listing truncated, showing %d products: %v\n",
				len(listing.Items), listing.Failure())
		}

		if listJSON {
			return writeListingJSON(cmd, listing)
		}
		printProductTable(cmd, listing.Items)
		return nil
	},
}

func writeListingJSON(cmd *cobra.Command, listing *catalog.Listing[product.Product]) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Complete bool              `json:"complete"`
		Stop     string            `json:"stop"`
		Pages    int               `json:"pages"`
		Count    int               `json:"count"`
		Products []product.Product `json:"products"`
	}{
		Complete: listing.Complete(),
		Stop:     listing.Stop.String(),
		Pages:    listing.Pages,
		Count:    len(listing.Items),
		Products: listing.Items,
	})
}

func printProductTable(cmd *cobra.Command, items []product.Product) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No products found in the store.")
		return
	}

	sorted := make([]product.Product, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})

	fmt.Fprintf(out, "\nFound %d products:\n\n", len(sorted))
	fmt.Fprintln(out, strings.Repeat("=", 80))
	for _, p := range sorted {
		fmt.Fprintf(out, "%-40s %-10s\n", p.Title, p.Status)
	}
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintf(out, "Total products: %d\n", len(sorted))
}

func init() {
	productsListCmd.Flags().BoolVar(&listJSON, "json", false, "Print the normalized listing as JSON")
	productsListCmd.Flags().BoolVar(&listStrict, "strict", false, "Fail when the listing is truncated")
	Register(productsListCmd)
}
