package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopify.GO/config"
	"shopify.GO/service/media"
	productService "shopify.GO/service/product"
)

var (
	createFile         string
	createImages       []string
	createMaxDimension int
	createQuality      int
	createNoPublish    bool
)

var productsCreateCmd = &cobra.Command{
	Use:   "products:create <store-name> <access-token>",
	Short: "Create a product with uploaded images and publish it",
	Long: `Create a product from a YAML definition. Images are staged, uploaded and
referenced from a single productSet call; the product is then published to
the definition's publications. Without --file the built-in example is used.`,
	Example: "  shopify products:create my-store shpat_xxxxxxxxxxxxxxxxxxxx --file product.yaml",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadCreateDefinition()
		if err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("invalid product definition: %w", err)
		}

		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Connecting to Shopify store: %s\n", s.store)

		opts := media.Options{MaxDimension: createMaxDimension, Quality: createQuality}
		files := make([]*media.File, 0, len(def.Images))
		for _, path := range def.Images {
			f, err := media.Load(path, opts)
			if err != nil {
				return err
			}
			if f.Resized {
				s.log.Info("image downscaled", zap.String("file", path), zap.Int("width", f.Width), zap.Int("height", f.Height))
			}
			files = append(files, f)
		}

		creator := productService.NewCreator(s.admin, s.log)
		p, err := creator.Create(cmd.Context(), def, files)
		if err != nil {
			return fmt.Errorf("create product (%s): %w", creator.State(), err)
		}
		fmt.Fprintf(out, "Product created successfully: %s\n", p.Title)
		fmt.Fprintf(out, "Product ID: %s\n", p.ID)
		fmt.Fprintf(out, "Media attached: %d\n", len(p.Media))

		if !createNoPublish && len(def.Publications) > 0 {
			count, err := productService.Publish(cmd.Context(), s.admin, p.ID, def.Publications)
			if err != nil {
				// The product exists; report the failed step without undoing it.
				return fmt.Errorf("product %s created but not published: %w", p.ID, err)
			}
			fmt.Fprintf(out, "Published to %d publications\n", count)
		}

		fmt.Fprintln(out, "\nProduct creation completed!")
		fmt.Fprintf(out, "View your product at: %s\n", config.AdminProductURL(s.store, p.LegacyID()))
		return nil
	},
}

func loadCreateDefinition() (*productService.Definition, error) {
	var def *productService.Definition
	if createFile != "" {
		loaded, err := productService.LoadDefinition(createFile)
		if err != nil {
			return nil, err
		}
		def = loaded
	} else {
		def = productService.ExampleDefinition()
	}
	if len(createImages) > 0 {
		def.Images = append([]string(nil), createImages...)
	}
	return def, nil
}

func init() {
	f := productsCreateCmd.Flags()
	f.StringVarP(&createFile, "file", "f", "", "YAML product definition (default: built-in example)")
	f.StringSliceVar(&createImages, "image", nil, "Image file to upload; replaces the definition's images (repeatable)")
	f.IntVar(&createMaxDimension, "max-dimension", 0, "Downscale images whose longest side exceeds this many pixels (0 keeps size)")
	f.IntVar(&createQuality, "quality", media.DefaultQuality, "JPEG quality for downscaled images")
	f.BoolVar(&createNoPublish, "no-publish", false, "Skip publishing to the definition's publications")
	Register(productsCreateCmd)
}
