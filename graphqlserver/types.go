package graphqlserver

import (
	"time"

	gql "github.com/graph-gophers/graphql-go"

	"shopify.GO/model/entity/product"
)

// Resolver types below are matched to the schema by field name
// (gql.UseFieldResolvers). Fields with arguments are methods.

type shopResolver struct {
	ID              gql.ID
	Name            string
	MyshopifyDomain string
	CurrencyCode    string
}

type countResolver struct {
	Count int32
}

type productResolver struct {
	ID              gql.ID
	Title           string
	Handle          string
	Status          string
	Description     string
	DescriptionHTML string
	ProductType     string
	Vendor          string
	Tags            []string
	CreatedAt       string
	UpdatedAt       string

	media        []*mediaResolver
	variants     []*variantResolver
	options      []*optionResolver
	metafields   []*metafieldResolver
	publications int
}

func (p *productResolver) Media(args connectionArgs) (*connection[*mediaResolver], error) {
	return paginate(p.media, args.First, args.After)
}

func (p *productResolver) Variants(args connectionArgs) (*connection[*variantResolver], error) {
	return paginate(p.variants, args.First, args.After)
}

func (p *productResolver) Options(args struct{ First *int32 }) []*optionResolver {
	if args.First != nil && int(*args.First) < len(p.options) {
		return p.options[:*args.First]
	}
	return p.options
}

func (p *productResolver) Metafields(args struct {
	First     *int32
	After     *string
	Namespace *string
}) (*connection[*metafieldResolver], error) {
	items := p.metafields
	if args.Namespace != nil {
		items = make([]*metafieldResolver, 0, len(p.metafields))
		for _, m := range p.metafields {
			if m.Namespace == *args.Namespace {
				items = append(items, m)
			}
		}
	}
	return paginate(items, args.First, args.After)
}

func (p *productResolver) AvailablePublicationsCount() *countResolver {
	return &countResolver{Count: int32(p.publications)}
}

// mediaResolver serves the Media interface and all three implementations.
type mediaResolver struct {
	ID               gql.ID
	Alt              *string
	MediaContentType string
	Status           string
	Image            *imageResolver
	Sources          []*videoSourceResolver
	EmbedURL         string
	OriginURL        string
	Host             string
}

func (m *mediaResolver) ToMediaImage() (*mediaResolver, bool) {
	return m, m.MediaContentType == "IMAGE"
}

func (m *mediaResolver) ToVideo() (*mediaResolver, bool) {
	return m, m.MediaContentType == "VIDEO"
}

func (m *mediaResolver) ToExternalVideo() (*mediaResolver, bool) {
	return m, m.MediaContentType == "EXTERNAL_VIDEO"
}

type imageResolver struct {
	ID      *gql.ID
	URL     string
	AltText *string
	Width   *int32
	Height  *int32
}

type videoSourceResolver struct {
	URL      string
	MimeType string
	Format   string
	Width    int32
	Height   int32
}

type variantResolver struct {
	ID                gql.ID
	Title             string
	SKU               *string
	Price             string
	CompareAtPrice    *string
	Taxable           bool
	InventoryQuantity *int32
	InventoryItem     *inventoryItemResolver
	SelectedOptions   []*selectedOptionResolver
}

type selectedOptionResolver struct {
	Name  string
	Value string
}

type inventoryItemResolver struct {
	ID          gql.ID
	SKU         *string
	Tracked     bool
	Measurement *measurementResolver

	levels []*inventoryLevelResolver
}

func (i *inventoryItemResolver) InventoryLevels(args connectionArgs) (*connection[*inventoryLevelResolver], error) {
	return paginate(i.levels, args.First, args.After)
}

type measurementResolver struct {
	Weight *weightResolver
}

type weightResolver struct {
	Value float64
	Unit  string
}

type inventoryLevelResolver struct {
	ID       gql.ID
	Location *locationResolver

	quantities []product.Quantity
}

// Quantities returns the requested quantity names in request order; names
// the level does not track report zero.
func (l *inventoryLevelResolver) Quantities(args struct{ Names []string }) []*quantityResolver {
	out := make([]*quantityResolver, 0, len(args.Names))
	for _, name := range args.Names {
		q := &quantityResolver{Name: name}
		for _, have := range l.quantities {
			if have.Name == name {
				q.Quantity = int32(have.Quantity)
			}
		}
		out = append(out, q)
	}
	return out
}

type quantityResolver struct {
	Name     string
	Quantity int32
}

type locationResolver struct {
	ID       gql.ID
	Name     string
	IsActive bool
}

type optionResolver struct {
	ID       gql.ID
	Name     string
	Position int32
	Values   []string
}

type metafieldResolver struct {
	ID        gql.ID
	Namespace string
	Key       string
	Value     string
	Type      string
}

type publicationResolver struct {
	ID   gql.ID
	Name string
}

// userErrorResolver serves UserError, ProductSetUserError and MediaUserError.
type userErrorResolver struct {
	Field   *[]string
	Message string
	Code    *string
}

type parameterResolver struct {
	Name  string
	Value string
}

type stagedTargetResolver struct {
	URL         *string
	ResourceURL *string
	Parameters  []*parameterResolver
}

type stagedUploadsCreatePayload struct {
	StagedTargets *[]*stagedTargetResolver
	UserErrors    []*userErrorResolver
}

type productSetPayload struct {
	Product    *productResolver
	UserErrors []*userErrorResolver
}

type publishableResolver struct {
	product *productResolver
}

func (p *publishableResolver) AvailablePublicationsCount() *countResolver {
	return p.product.AvailablePublicationsCount()
}

func (p *publishableResolver) ToProduct() (*productResolver, bool) {
	return p.product, true
}

type publishablePublishPayload struct {
	Publishable *publishableResolver
	UserErrors  []*userErrorResolver
}

type productCreateMediaPayload struct {
	Media           *[]*mediaResolver
	MediaUserErrors []*userErrorResolver
	Product         *productResolver
}

func newUserError(message, code string, field ...string) *userErrorResolver {
	ue := &userErrorResolver{Message: message}
	if len(field) > 0 {
		ue.Field = &field
	}
	if code != "" {
		ue.Code = &code
	}
	return ue
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toShopResolver(s product.Shop) *shopResolver {
	return &shopResolver{
		ID:              gql.ID(s.ID),
		Name:            s.Name,
		MyshopifyDomain: s.MyshopifyDomain,
		CurrencyCode:    s.CurrencyCode,
	}
}

func toProductResolver(sp *storedProduct) *productResolver {
	p := sp.product
	r := &productResolver{
		ID:              gql.ID(p.ID),
		Title:           p.Title,
		Handle:          p.Handle,
		Status:          p.Status,
		Description:     p.Description,
		DescriptionHTML: sp.descriptionHTML,
		ProductType:     p.ProductType,
		Vendor:          p.Vendor,
		Tags:            append([]string{}, p.Tags...),
		CreatedAt:       formatTime(p.CreatedAt),
		UpdatedAt:       formatTime(p.UpdatedAt),
		publications:    len(sp.publications),
	}
	if r.DescriptionHTML == "" {
		r.DescriptionHTML = p.Description
	}
	for _, m := range p.Media {
		r.media = append(r.media, toMediaResolver(m))
	}
	for _, v := range p.Variants {
		vr := toVariantResolver(v)
		if taxable, ok := sp.taxable[v.ID]; ok {
			vr.Taxable = taxable
		}
		if w, ok := sp.weights[v.ID]; ok && vr.InventoryItem != nil {
			vr.InventoryItem.Measurement.Weight = &weightResolver{Value: w.value, Unit: w.unit}
		}
		r.variants = append(r.variants, vr)
	}
	for i, o := range p.Options {
		pos := o.Position
		if pos == 0 {
			pos = i + 1
		}
		r.options = append(r.options, &optionResolver{
			ID:       gql.ID(o.ID),
			Name:     o.Name,
			Position: int32(pos),
			Values:   append([]string{}, o.Values...),
		})
	}
	for _, m := range p.Metafields {
		r.metafields = append(r.metafields, &metafieldResolver{
			ID:        gql.ID(m.ID),
			Namespace: m.Namespace,
			Key:       m.Key,
			Value:     m.Value,
			Type:      m.Type,
		})
	}
	return r
}

func toMediaResolver(m product.Media) *mediaResolver {
	r := &mediaResolver{
		ID:               gql.ID(m.ID),
		Alt:              optional(m.Alt),
		MediaContentType: m.MediaContentType,
		Status:           m.Status,
		EmbedURL:         m.EmbedURL,
		Host:             m.Host,
		OriginURL:        m.EmbedURL,
		Sources:          []*videoSourceResolver{},
	}
	if r.Status == "" {
		r.Status = "READY"
	}
	if m.Image != nil {
		img := &imageResolver{URL: m.Image.URL, AltText: optional(m.Image.AltText)}
		if m.Image.ID != "" {
			id := gql.ID(m.Image.ID)
			img.ID = &id
		}
		if m.Image.Width > 0 {
			w := int32(m.Image.Width)
			img.Width = &w
		}
		if m.Image.Height > 0 {
			h := int32(m.Image.Height)
			img.Height = &h
		}
		r.Image = img
	}
	for _, s := range m.Sources {
		r.Sources = append(r.Sources, &videoSourceResolver{URL: s.URL, MimeType: s.MimeType, Format: s.Format})
	}
	return r
}

func toVariantResolver(v product.Variant) *variantResolver {
	qty := int32(v.InventoryQuantity)
	r := &variantResolver{
		ID:                gql.ID(v.ID),
		Title:             v.Title,
		SKU:               optional(v.SKU),
		Price:             v.Price,
		CompareAtPrice:    v.CompareAtPrice,
		Taxable:           true,
		InventoryQuantity: &qty,
		SelectedOptions:   []*selectedOptionResolver{},
	}
	for _, o := range v.SelectedOptions {
		r.SelectedOptions = append(r.SelectedOptions, &selectedOptionResolver{Name: o.Name, Value: o.Value})
	}
	item := v.InventoryItem
	if item == nil {
		item = &product.InventoryItem{ID: "gid://shopify/InventoryItem/" + product.LegacyID(v.ID)}
	}
	r.InventoryItem = &inventoryItemResolver{
		ID:          gql.ID(item.ID),
		SKU:         optional(v.SKU),
		Tracked:     item.Tracked,
		Measurement: &measurementResolver{},
	}
	for _, level := range item.InventoryLevels {
		r.InventoryItem.levels = append(r.InventoryItem.levels, &inventoryLevelResolver{
			ID:         gql.ID(level.ID),
			Location:   &locationResolver{ID: gql.ID(level.Location.ID), Name: level.Location.Name, IsActive: true},
			quantities: level.Quantities,
		})
	}
	return r
}
