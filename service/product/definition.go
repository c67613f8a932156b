package product

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	productEntity "shopify.GO/model/entity/product"
)

// DefaultSKUMetafield is the metafield key whose value doubles as the SKU.
const DefaultSKUMetafield = "minkeeper_number"

//go:embed example.yaml
var exampleYAML []byte

type Weight struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

type InventoryQuantity struct {
	LocationID string `yaml:"location_id"`
	Name       string `yaml:"name"`
	Quantity   int    `yaml:"quantity"`
}

type PublicationTarget struct {
	PublicationID string `yaml:"id" json:"publicationId"`
	PublishDate   string `yaml:"publish_date" json:"publishDate,omitempty"`
}

// Definition is a product to create, as written in a YAML file.
type Definition struct {
	Title          string                    `yaml:"title"`
	Description    string                    `yaml:"description"`
	Vendor         string                    `yaml:"vendor"`
	ProductType    string                    `yaml:"product_type"`
	Status         string                    `yaml:"status"`
	Tags           []string                  `yaml:"tags"`
	Price          string                    `yaml:"price"`
	CompareAtPrice string                    `yaml:"compare_at_price"`
	Taxable        bool                      `yaml:"taxable"`
	Weight         *Weight                   `yaml:"weight"`
	SKU            string                    `yaml:"sku"`
	SKUMetafield   string                    `yaml:"sku_metafield"`
	Images         []string                  `yaml:"images"`
	Videos         []string                  `yaml:"videos"`
	Inventory      []InventoryQuantity       `yaml:"inventory"`
	Publications   []PublicationTarget       `yaml:"publications"`
	Metafields     []productEntity.Metafield `yaml:"metafields"`
}

// ParseDefinition decodes YAML and fills defaults. It does not validate.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse product definition: %w", err)
	}
	def.applyDefaults()
	return &def, nil
}

// LoadDefinition reads a definition file. Relative image paths are resolved
// against the file's directory.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read product definition: %w", err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i, img := range def.Images {
		if !filepath.IsAbs(img) {
			def.Images[i] = filepath.Join(dir, img)
		}
	}
	return def, nil
}

// ExampleDefinition is the mineral specimen used when no file is given.
func ExampleDefinition() *Definition {
	def, err := ParseDefinition(exampleYAML)
	if err != nil {
		panic(err)
	}
	return def
}

func (d *Definition) applyDefaults() {
	if d.SKUMetafield == "" {
		d.SKUMetafield = DefaultSKUMetafield
	}
	for i := range d.Inventory {
		if d.Inventory[i].Name == "" {
			d.Inventory[i].Name = "available"
		}
	}
	for i := range d.Metafields {
		if d.Metafields[i].Namespace == "" {
			d.Metafields[i].Namespace = "custom"
		}
	}
	if d.Weight != nil && d.Weight.Unit == "" {
		d.Weight.Unit = "GRAMS"
	}
}

var statuses = map[string]bool{"ACTIVE": true, "ARCHIVED": true, "DRAFT": true}

var weightUnits = map[string]bool{"GRAMS": true, "KILOGRAMS": true, "OUNCES": true, "POUNDS": true}

// Validate reports every problem at once.
func (d *Definition) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if _, err := strconv.ParseFloat(d.Price, 64); err != nil {
		errs = append(errs, fmt.Errorf("price %q is not a decimal", d.Price))
	}
	if d.Status != "" && !statuses[d.Status] {
		errs = append(errs, fmt.Errorf("status %q must be one of ACTIVE, ARCHIVED, DRAFT", d.Status))
	}
	if d.CompareAtPrice != "" {
		if _, err := strconv.ParseFloat(d.CompareAtPrice, 64); err != nil {
			errs = append(errs, fmt.Errorf("compare_at_price %q is not a decimal", d.CompareAtPrice))
		}
	}
	if d.Weight != nil {
		if d.Weight.Value < 0 {
			errs = append(errs, errors.New("weight must not be negative"))
		}
		if !weightUnits[d.Weight.Unit] {
			errs = append(errs, fmt.Errorf("weight unit %q is not supported", d.Weight.Unit))
		}
	}
	for i, v := range d.Videos {
		if u, err := url.Parse(v); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("videos[%d]: %q is not an http(s) URL", i, v))
		}
	}
	for i, q := range d.Inventory {
		if q.LocationID == "" {
			errs = append(errs, fmt.Errorf("inventory[%d]: location_id is required", i))
		}
		if q.Quantity < 0 {
			errs = append(errs, fmt.Errorf("inventory[%d]: quantity must not be negative", i))
		}
	}
	for i, p := range d.Publications {
		if p.PublicationID == "" {
			errs = append(errs, fmt.Errorf("publications[%d]: id is required", i))
		}
	}
	for i, m := range d.Metafields {
		if m.Key == "" || m.Type == "" {
			errs = append(errs, fmt.Errorf("metafields[%d]: key and type are required", i))
		}
	}
	return errors.Join(errs...)
}

// ResolvedSKU is the explicit sku, or else the value of the SKU metafield.
func (d *Definition) ResolvedSKU() string {
	if d.SKU != "" {
		return d.SKU
	}
	key := d.SKUMetafield
	if key == "" {
		key = DefaultSKUMetafield
	}
	for _, m := range d.Metafields {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}
