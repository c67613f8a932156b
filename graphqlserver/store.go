package graphqlserver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"shopify.GO/model/entity/product"
)

// Parameter is one signed form field or header of a staged upload.
type Parameter struct {
	Name  string
	Value string
}

// StagedUpload is a target handed out by stagedUploadsCreate.
type StagedUpload struct {
	Key         string
	Filename    string
	MimeType    string
	Resource    string
	Method      string
	URL         string
	ResourceURL string
	Parameters  []Parameter
	Uploaded    bool
	Data        []byte
}

// RecordedRequest is one GraphQL call as the server received it.
type RecordedRequest struct {
	OperationName string
	Query         string
	Variables     map[string]interface{}
}

type storedProduct struct {
	product         product.Product
	descriptionHTML string
	taxable         map[string]bool
	weights         map[string]weight
	publications    map[string]string
}

type weight struct {
	value float64
	unit  string
}

// Store is the in-memory state behind the mock Admin API. All methods are
// safe for concurrent use.
type Store struct {
	mu sync.Mutex

	shop         product.Shop
	products     []*storedProduct
	publications []product.Publication
	locations    []product.Location
	uploads      map[string]*StagedUpload
	requests     []RecordedRequest
	seq          int
	now          func() time.Time

	productPagesLeft int
	productPageError string
	uploadStatus     int
}

// NewStore returns a store with one shop, one location and the three
// standard sales channels.
func NewStore() *Store {
	return &Store{
		shop: product.Shop{
			ID:              "gid://shopify/Shop/1",
			Name:            "Mock Store",
			MyshopifyDomain: "mock-store.myshopify.com",
			CurrencyCode:    "GBP",
		},
		publications: []product.Publication{
			{ID: "gid://shopify/Publication/154328137891", Name: "Online Store"},
			{ID: "gid://shopify/Publication/154328203427", Name: "Point of Sale"},
			{ID: "gid://shopify/Publication/154328268963", Name: "Shop"},
		},
		locations: []product.Location{
			{ID: "gid://shopify/Location/74448765091", Name: "UK Warehouse", IsActive: true},
		},
		uploads:          make(map[string]*StagedUpload),
		seq:              1000,
		now:              func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		productPagesLeft: -1,
	}
}

func (s *Store) nextID(resource string) string {
	s.seq++
	return product.GID(resource, strconv.Itoa(s.seq))
}

func (s *Store) Shop() product.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shop
}

// AddProduct stores p, filling in ids and timestamps that are missing.
func (s *Store) AddProduct(p product.Product) product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addProductLocked(&storedProduct{product: p}).product
}

func (s *Store) addProductLocked(sp *storedProduct) *storedProduct {
	p := &sp.product
	if p.ID == "" {
		p.ID = s.nextID("Product")
	}
	if p.Handle == "" {
		p.Handle = s.uniqueHandleLocked(p.Title)
	}
	if p.Status == "" {
		p.Status = "ACTIVE"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if sp.publications == nil {
		sp.publications = make(map[string]string)
	}
	s.products = append(s.products, sp)
	return sp
}

// Seed adds n simple products titled "Product 001" and up.
func (s *Store) Seed(n int) {
	for i := 1; i <= n; i++ {
		s.AddProduct(product.Product{
			Title:  fmt.Sprintf("Product %03d", i),
			Status: "ACTIVE",
			Variants: []product.Variant{{
				Title:           "Default Title",
				Price:           fmt.Sprintf("%d.00", i*10),
				SelectedOptions: []product.SelectedOption{{Name: "Title", Value: "Default Title"}},
			}},
			Options: []product.Option{{Name: "Title", Position: 1, Values: []string{"Default Title"}}},
		})
	}
}

// Products returns a copy of the catalog in insertion order.
func (s *Store) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]product.Product, 0, len(s.products))
	for _, sp := range s.products {
		out = append(out, sp.product)
	}
	return out
}

// snapshot returns copies of the stored products for resolving.
func (s *Store) snapshot() []*storedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storedProduct, 0, len(s.products))
	for _, sp := range s.products {
		cp := *sp
		cp.publications = make(map[string]string, len(sp.publications))
		for k, v := range sp.publications {
			cp.publications[k] = v
		}
		out = append(out, &cp)
	}
	return out
}

func (s *Store) Product(id string) (product.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp := s.findLocked(id); sp != nil {
		return sp.product, true
	}
	return product.Product{}, false
}

func (s *Store) findLocked(id string) *storedProduct {
	for _, sp := range s.products {
		if sp.product.ID == id {
			return sp
		}
	}
	return nil
}

// ProductPublications lists the publication ids a product was published to.
func (s *Store) ProductPublications(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := s.findLocked(id)
	if sp == nil {
		return nil
	}
	out := make([]string, 0, len(sp.publications))
	for pub := range sp.publications {
		out = append(out, pub)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Publications() []product.Publication {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Publication(nil), s.publications...)
}

func (s *Store) Locations() []product.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Location(nil), s.locations...)
}

func (s *Store) location(id string) (product.Location, bool) {
	for _, l := range s.Locations() {
		if l.ID == id {
			return l, true
		}
	}
	return product.Location{}, false
}

func (s *Store) publicationExists(id string) bool {
	for _, p := range s.Publications() {
		if p.ID == id {
			return true
		}
	}
	return false
}

// FailProductsAfter makes the products query fail with message once n more
// pages have been served. A negative n disables the failure.
func (s *Store) FailProductsAfter(n int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productPagesLeft = n
	s.productPageError = message
}

// takeProductPage consumes one page of the failure budget.
func (s *Store) takeProductPage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.productPagesLeft < 0:
		return nil
	case s.productPagesLeft == 0:
		return fmt.Errorf("%s", s.productPageError)
	}
	s.productPagesLeft--
	return nil
}

// FailUploads makes the upload endpoint answer with status. Zero disables it.
func (s *Store) FailUploads(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadStatus = status
}

func (s *Store) uploadFailure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadStatus
}

func (s *Store) stage(up *StagedUpload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[up.Key] = up
}

// StagedUpload returns a copy of the staged upload with key.
func (s *Store) StagedUpload(key string) (StagedUpload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	up, ok := s.uploads[key]
	if !ok {
		return StagedUpload{}, false
	}
	return *up, true
}

// StagedUploads lists staged uploads sorted by key.
func (s *Store) StagedUploads() []StagedUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StagedUpload, 0, len(s.uploads))
	for _, up := range s.uploads {
		out = append(out, *up)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *Store) completeUpload(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if up, ok := s.uploads[key]; ok {
		up.Uploaded = true
		up.Data = data
	}
}

// uploadByResourceURL finds the staged upload a resourceUrl points at.
func (s *Store) uploadByResourceURL(resourceURL string) (StagedUpload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, up := range s.uploads {
		if up.ResourceURL == resourceURL {
			return *up, true
		}
	}
	return StagedUpload{}, false
}

func (s *Store) record(r RecordedRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
}

// Requests returns every GraphQL request received so far.
func (s *Store) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// OperationCount counts received requests with the given operation name.
func (s *Store) OperationCount(name string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.OperationName == name {
			n++
		}
	}
	return n
}

func (s *Store) uniqueHandleLocked(title string) string {
	base := handleize(title)
	if base == "" {
		base = "product"
	}
	handle := base
	for i := 1; ; i++ {
		taken := false
		for _, sp := range s.products {
			if sp.product.Handle == handle {
				taken = true
				break
			}
		}
		if !taken {
			return handle
		}
		handle = fmt.Sprintf("%s-%d", base, i)
	}
}

func handleize(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// createProduct stores a validated productSet input.
func (s *Store) createProduct(in *productSetInput, media []product.Media, variants []*variantSetInput) *storedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()

	descHTML := deref(in.DescriptionHtml)
	p := product.Product{
		ID:          s.nextID("Product"),
		Title:       strings.TrimSpace(deref(in.Title)),
		Handle:      deref(in.Handle),
		Status:      deref(in.Status),
		Description: stripTags(descHTML),
		ProductType: deref(in.ProductType),
		Vendor:      deref(in.Vendor),
		Tags:        []string{},
		Media:       media,
	}
	if in.Tags != nil {
		p.Tags = append(p.Tags, *in.Tags...)
	}

	if in.ProductOptions != nil {
		for i, o := range *in.ProductOptions {
			opt := product.Option{ID: s.nextID("ProductOption"), Name: deref(o.Name), Position: i + 1}
			if o.Position != nil {
				opt.Position = int(*o.Position)
			}
			if o.Values != nil {
				for _, v := range *o.Values {
					opt.Values = append(opt.Values, deref(v.Name))
				}
			}
			p.Options = append(p.Options, opt)
		}
	}
	if len(p.Options) == 0 {
		p.Options = []product.Option{{ID: s.nextID("ProductOption"), Name: "Title", Position: 1, Values: []string{"Default Title"}}}
	}

	sp := &storedProduct{
		descriptionHTML: descHTML,
		taxable:         make(map[string]bool),
		weights:         make(map[string]weight),
		publications:    make(map[string]string),
	}
	if len(variants) == 0 {
		variants = []*variantSetInput{{}}
	}
	for _, vin := range variants {
		v := product.Variant{
			ID:    s.nextID("ProductVariant"),
			Price: deref(vin.Price),
			SKU:   deref(vin.Sku),
		}
		if v.Price == "" {
			v.Price = "0.00"
		}
		v.CompareAtPrice = vin.CompareAtPrice
		titles := make([]string, 0, len(vin.OptionValues))
		for _, ov := range vin.OptionValues {
			v.SelectedOptions = append(v.SelectedOptions, product.SelectedOption{Name: deref(ov.OptionName), Value: deref(ov.Name)})
			titles = append(titles, deref(ov.Name))
		}
		if len(titles) == 0 {
			titles = []string{"Default Title"}
			v.SelectedOptions = []product.SelectedOption{{Name: "Title", Value: "Default Title"}}
		}
		v.Title = strings.Join(titles, " / ")

		item := &product.InventoryItem{ID: s.nextID("InventoryItem")}
		if vin.InventoryItem != nil {
			item.Tracked = vin.InventoryItem.Tracked != nil && *vin.InventoryItem.Tracked
			if v.SKU == "" {
				v.SKU = deref(vin.InventoryItem.Sku)
			}
			if m := vin.InventoryItem.Measurement; m != nil && m.Weight != nil {
				sp.weights[v.ID] = weight{value: m.Weight.Value, unit: m.Weight.Unit}
			}
		}
		if vin.InventoryQuantities != nil {
			for _, q := range *vin.InventoryQuantities {
				loc := product.Location{ID: string(q.LocationID)}
				for _, l := range s.locations {
					if l.ID == loc.ID {
						loc = l
					}
				}
				item.InventoryLevels = append(item.InventoryLevels, product.InventoryLevel{
					ID:         product.GID("InventoryLevel", product.LegacyID(item.ID)+"-"+product.LegacyID(loc.ID)),
					Location:   loc,
					Quantities: []product.Quantity{{Name: "available", Quantity: int(q.Quantity)}},
				})
				v.InventoryQuantity += int(q.Quantity)
			}
		}
		v.InventoryItem = item
		sp.taxable[v.ID] = vin.Taxable == nil || *vin.Taxable
		p.Variants = append(p.Variants, v)
	}

	if in.Metafields != nil {
		for _, m := range *in.Metafields {
			ns := deref(m.Namespace)
			if ns == "" {
				ns = "custom"
			}
			p.Metafields = append(p.Metafields, product.Metafield{
				ID:        s.nextID("Metafield"),
				Namespace: ns,
				Key:       m.Key,
				Value:     m.Value,
				Type:      deref(m.Type),
			})
		}
	}

	sp.product = p
	return s.addProductLocked(sp)
}

// publish records publication dates and returns a copy of the product.
func (s *Store) publish(id string, pubs map[string]string) *storedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := s.findLocked(id)
	for pub, date := range pubs {
		sp.publications[pub] = date
	}
	cp := *sp
	return &cp
}

func (s *Store) appendMedia(id string, media []product.Media) *storedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := s.findLocked(id)
	sp.product.Media = append(sp.product.Media, media...)
	sp.product.UpdatedAt = s.now()
	cp := *sp
	return &cp
}

func stripTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
