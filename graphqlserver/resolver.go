package graphqlserver

import (
	"strings"

	gql "github.com/graph-gophers/graphql-go"
)

// RootResolver serves both QueryRoot and Mutation.
type RootResolver struct {
	store *Store
}

func (r *RootResolver) Shop() *shopResolver {
	return toShopResolver(r.store.Shop())
}

type productsArgs struct {
	First *int32
	After *string
	Query *string
}

func (r *RootResolver) Products(args productsArgs) (*connection[*productResolver], error) {
	if err := r.store.takeProductPage(); err != nil {
		return nil, err
	}
	stored := r.store.snapshot()
	items := make([]*productResolver, 0, len(stored))
	for _, sp := range stored {
		if args.Query != nil && !matchesQuery(sp, *args.Query) {
			continue
		}
		items = append(items, toProductResolver(sp))
	}
	return paginate(items, args.First, args.After)
}

func (r *RootResolver) Product(args struct{ ID gql.ID }) *productResolver {
	for _, sp := range r.store.snapshot() {
		if sp.product.ID == string(args.ID) {
			return toProductResolver(sp)
		}
	}
	return nil
}

func (r *RootResolver) Publications(args connectionArgs) (*connection[*publicationResolver], error) {
	pubs := r.store.Publications()
	items := make([]*publicationResolver, 0, len(pubs))
	for _, p := range pubs {
		items = append(items, &publicationResolver{ID: gql.ID(p.ID), Name: p.Name})
	}
	return paginate(items, args.First, args.After)
}

func (r *RootResolver) Locations(args connectionArgs) (*connection[*locationResolver], error) {
	locs := r.store.Locations()
	items := make([]*locationResolver, 0, len(locs))
	for _, l := range locs {
		items = append(items, &locationResolver{ID: gql.ID(l.ID), Name: l.Name, IsActive: l.IsActive})
	}
	return paginate(items, args.First, args.After)
}

// matchesQuery supports "title:<text>" and bare text, both as a
// case-insensitive substring of the title.
func matchesQuery(sp *storedProduct, query string) bool {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, "title:")
	query = strings.Trim(query, "*\"")
	return query == "" || strings.Contains(strings.ToLower(sp.product.Title), strings.ToLower(query))
}
