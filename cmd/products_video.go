package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	productService "shopify.GO/service/product"
)

var videoAlt string

var productsAddVideoCmd = &cobra.Command{
	Use:     "products:add-video <store-name> <access-token> <product-id> <video-url>",
	Short:   "Attach a YouTube or Vimeo video to a product",
	Example: "  shopify products:add-video my-store shpat_xxx gid://shopify/Product/1234567890 https://vimeo.com/1099782710",
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		productID := toGID("Product", args[2])
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Adding video to product: %s\n", productID)
		fmt.Fprintf(out, "Video URL: %s\n", args[3])

		added, err := productService.AddExternalVideo(cmd.Context(), s.admin, productID, args[3], videoAlt)
		if err != nil {
			return err
		}
		if len(added) == 0 {
			return fmt.Errorf("productCreateMedia returned no media")
		}
		fmt.Fprintln(out, "Video added successfully!")
		for _, m := range added {
			fmt.Fprintf(out, "   Media ID: %s\n", m.ID)
			fmt.Fprintf(out, "   Media Type: %s\n", m.MediaContentType)
			if m.EmbedURL != "" {
				fmt.Fprintf(out, "   Embed URL: %s\n", m.EmbedURL)
				fmt.Fprintf(out, "   Host: %s\n", m.Host)
			}
		}
		return nil
	},
}

func init() {
	productsAddVideoCmd.Flags().StringVar(&videoAlt, "alt", productService.DefaultVideoAlt, "Alt text for the video")
	Register(productsAddVideoCmd)
}
