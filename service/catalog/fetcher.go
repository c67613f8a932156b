// Package catalog reads the product catalog and related lookups from the
// Admin API.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"shopify.GO/core/admin"
	"shopify.GO/graphql"
	"shopify.GO/model/entity/product"
)

const DefaultPageSize = 50

// Limits caps the nested connections read with each product. Records with
// more entries than a cap are silently truncated by the server.
type Limits struct {
	Media           int
	Variants        int
	InventoryLevels int
	Metafields      int
}

var DefaultLimits = Limits{Media: 10, Variants: 20, InventoryLevels: 5, Metafields: 20}

func (l Limits) withDefaults() Limits {
	if l.Media <= 0 {
		l.Media = DefaultLimits.Media
	}
	if l.Variants <= 0 {
		l.Variants = DefaultLimits.Variants
	}
	if l.InventoryLevels <= 0 {
		l.InventoryLevels = DefaultLimits.InventoryLevels
	}
	if l.Metafields <= 0 {
		l.Metafields = DefaultLimits.Metafields
	}
	return l
}

type Fetcher struct {
	cfg      admin.Config
	pageSize int
	limits   Limits
	log      *zap.Logger
}

type Option func(*Fetcher)

func WithPageSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

func WithLimits(l Limits) Option {
	return func(f *Fetcher) { f.limits = l.withDefaults() }
}

func WithLogger(log *zap.Logger) Option {
	return func(f *Fetcher) {
		if log != nil {
			f.log = log
		}
	}
}

func NewFetcher(cfg admin.Config, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:      cfg,
		pageSize: DefaultPageSize,
		limits:   DefaultLimits,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page is one slice of the catalog.
type Page struct {
	Products []product.Product
	PageInfo product.PageInfo
}

// FetchPage reads up to pageSize products after the cursor. A nil cursor
// reads the first page.
func (f *Fetcher) FetchPage(ctx context.Context, pageSize int, after *string) (*Page, error) {
	vars := map[string]interface{}{
		"first":           pageSize,
		"mediaFirst":      f.limits.Media,
		"variantsFirst":   f.limits.Variants,
		"levelsFirst":     f.limits.InventoryLevels,
		"metafieldsFirst": f.limits.Metafields,
	}
	if after != nil {
		vars["after"] = *after
	}

	res := admin.Execute(ctx, f.cfg, admin.Request{
		Query:         graphql.ProductsQuery,
		OperationName: "Products",
		Variables:     vars,
	})
	page := &Page{}
	if err := decodeConnection(res, "products", &page.Products, &page.PageInfo); err != nil {
		return nil, err
	}
	return page, nil
}

// FetchAll reads the whole catalog sequentially. The listing is returned
// even when a page fails; check Complete before trusting it as the full
// catalog.
func (f *Fetcher) FetchAll(ctx context.Context) *Listing[product.Product] {
	listing := Collect(ctx, func(ctx context.Context, after *string) ([]product.Product, product.PageInfo, error) {
		page, err := f.FetchPage(ctx, f.pageSize, after)
		if err != nil {
			return nil, product.PageInfo{}, err
		}
		f.log.Debug("products page", zap.Int("count", len(page.Products)), zap.Bool("hasNextPage", page.PageInfo.HasNextPage))
		return page.Products, page.PageInfo, nil
	})
	f.logListing("products", listing.Pages, len(listing.Items), listing.Stop, listing.Err)
	return listing
}

// Shop reads the shop the credential belongs to.
func (f *Fetcher) Shop(ctx context.Context) (*product.Shop, error) {
	res := admin.Execute(ctx, f.cfg, admin.Request{Query: graphql.ShopQuery, OperationName: "Shop"})
	var shop product.Shop
	if err := res.Decode("shop", &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// FetchPublications lists the sales channels products can be published to.
func (f *Fetcher) FetchPublications(ctx context.Context) *Listing[product.Publication] {
	listing := Collect(ctx, connectionPage[product.Publication](f, graphql.PublicationsQuery, "Publications", "publications"))
	f.logListing("publications", listing.Pages, len(listing.Items), listing.Stop, listing.Err)
	return listing
}

// FetchLocations lists inventory locations.
func (f *Fetcher) FetchLocations(ctx context.Context) *Listing[product.Location] {
	listing := Collect(ctx, connectionPage[product.Location](f, graphql.LocationsQuery, "Locations", "locations"))
	f.logListing("locations", listing.Pages, len(listing.Items), listing.Stop, listing.Err)
	return listing
}

func connectionPage[T any](f *Fetcher, query, operation, root string) PageFunc[T] {
	return func(ctx context.Context, after *string) ([]T, product.PageInfo, error) {
		vars := map[string]interface{}{"first": f.pageSize}
		if after != nil {
			vars["after"] = *after
		}
		res := admin.Execute(ctx, f.cfg, admin.Request{Query: query, OperationName: operation, Variables: vars})
		var (
			items []T
			info  product.PageInfo
		)
		if err := decodeConnection(res, root, &items, &info); err != nil {
			return nil, product.PageInfo{}, err
		}
		return items, info, nil
	}
}

// decodeConnection splits a connection payload into its node slice and page
// info. A connection without pageInfo is treated as a single final page.
func decodeConnection(res *admin.Result, root string, nodes interface{}, info *product.PageInfo) error {
	if err := res.Decode(root, nodes); err != nil {
		return err
	}
	if !res.Has(root + ".pageInfo") {
		*info = product.PageInfo{}
		return nil
	}
	return res.Decode(root+".pageInfo", info)
}

func (f *Fetcher) logListing(what string, pages, count int, stop StopReason, err error) {
	fields := []zap.Field{
		zap.String("store", f.cfg.Tenant),
		zap.Int("pages", pages),
		zap.Int("count", count),
		zap.Stringer("stop", stop),
	}
	if stop != StopExhausted {
		f.log.Warn(what+" listing stopped early", append(fields, zap.Error(err))...)
		return
	}
	f.log.Info(what+" listing complete", fields...)
}
