package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shopify.GO/model/entity/product"
	productService "shopify.GO/service/product"
)

var publishDate string

var productsPublishCmd = &cobra.Command{
	Use:     "products:publish <store-name> <access-token> <product-id> <publication-id>...",
	Short:   "Publish a product to one or more publications",
	Example: "  shopify products:publish my-store shpat_xxx 1234567890 gid://shopify/Publication/1 2",
	Args:    cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if publishDate != "" {
			if _, err := time.Parse(time.RFC3339, publishDate); err != nil {
				return fmt.Errorf("--publish-date must be RFC 3339: %w", err)
			}
		}

		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		productID := toGID("Product", args[2])
		targets := make([]productService.PublicationTarget, 0, len(args)-3)
		for _, id := range args[3:] {
			targets = append(targets, productService.PublicationTarget{
				PublicationID: toGID("Publication", id),
				PublishDate:   publishDate,
			})
		}

		count, err := productService.Publish(cmd.Context(), s.admin, productID, targets)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published %s to %d publications (available on %d)\n", productID, len(targets), count)
		return nil
	},
}

// toGID accepts either a GID or a bare numeric id.
func toGID(resource, id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return product.GID(resource, id)
}

func init() {
	productsPublishCmd.Flags().StringVar(&publishDate, "publish-date", "", "Publish at this RFC 3339 time instead of now")
	Register(productsPublishCmd)
}
