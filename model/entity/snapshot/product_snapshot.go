package snapshot

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	productEntity "shopify.GO/model/entity/product"
)

// ProductSnapshot represents shopify_product_snapshot table: one row per
// product per store, overwritten by every export.
type ProductSnapshot struct {
	Store            string         `gorm:"column:store;type:varchar(255);primaryKey" json:"store"`
	ProductID        string         `gorm:"column:product_id;type:varchar(255);primaryKey" json:"product_id"`
	LegacyID         string         `gorm:"column:legacy_id;type:varchar(64);index" json:"legacy_id"`
	Title            string         `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Handle           string         `gorm:"column:handle;type:varchar(255);index" json:"handle"`
	Status           string         `gorm:"column:status;type:varchar(32)" json:"status"`
	Vendor           string         `gorm:"column:vendor;type:varchar(255)" json:"vendor,omitempty"`
	ProductType      string         `gorm:"column:product_type;type:varchar(255)" json:"product_type,omitempty"`
	SKU              string         `gorm:"column:sku;type:varchar(255);index" json:"sku,omitempty"`
	Price            string         `gorm:"column:price;type:varchar(32)" json:"price,omitempty"`
	TotalInventory   int            `gorm:"column:total_inventory;not null;default:0" json:"total_inventory"`
	MediaCount       int            `gorm:"column:media_count;not null;default:0" json:"media_count"`
	Tags             datatypes.JSON `gorm:"column:tags" json:"tags"`
	Payload          datatypes.JSON `gorm:"column:payload" json:"payload"`
	ProductUpdatedAt time.Time      `gorm:"column:product_updated_at" json:"product_updated_at"`
	ExportedAt       time.Time      `gorm:"column:exported_at;index" json:"exported_at"`
}

func (ProductSnapshot) TableName() string {
	return "shopify_product_snapshot"
}

// FromProduct flattens p for storage. The full record is kept in Payload.
func FromProduct(store string, p productEntity.Product, exportedAt time.Time) (ProductSnapshot, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return ProductSnapshot{}, err
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return ProductSnapshot{}, err
	}
	s := ProductSnapshot{
		Store:            store,
		ProductID:        p.ID,
		LegacyID:         p.LegacyID(),
		Title:            p.Title,
		Handle:           p.Handle,
		Status:           p.Status,
		Vendor:           p.Vendor,
		ProductType:      p.ProductType,
		TotalInventory:   p.TotalInventory(),
		MediaCount:       len(p.Media),
		Tags:             datatypes.JSON(tags),
		Payload:          datatypes.JSON(payload),
		ProductUpdatedAt: p.UpdatedAt,
		ExportedAt:       exportedAt,
	}
	if len(p.Variants) > 0 {
		s.SKU = p.Variants[0].SKU
		s.Price = p.Variants[0].Price
	}
	return s, nil
}

// Product decodes the stored payload back into a record.
func (s ProductSnapshot) Product() (productEntity.Product, error) {
	var p productEntity.Product
	err := json.Unmarshal(s.Payload, &p)
	return p, err
}
