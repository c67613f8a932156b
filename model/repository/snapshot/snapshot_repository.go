package snapshot

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	snapshotEntity "shopify.GO/model/entity/snapshot"
)

const DefaultBatchSize = 200

type SnapshotRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewSnapshotRepository(db *gorm.DB) (*SnapshotRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &SnapshotRepository{db: db, sqlDB: sqlDB}, nil
}

// Migrate creates or updates the snapshot tables.
func (r *SnapshotRepository) Migrate() error {
	return r.db.AutoMigrate(&snapshotEntity.ProductSnapshot{}, &snapshotEntity.ExportRun{})
}

// Upsert writes rows in batches, replacing rows with the same store and
// product id.
func (r *SnapshotRepository) Upsert(rows []snapshotEntity.ProductSnapshot, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store"}, {Name: "product_id"}},
		UpdateAll: true,
	}).CreateInBatches(&rows, batchSize).Error
}

// ReplaceStore upserts rows and removes the store's rows that are no longer
// in the catalog, in one transaction.
func (r *SnapshotRepository) ReplaceStore(store string, rows []snapshotEntity.ProductSnapshot, batchSize int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &SnapshotRepository{db: tx, sqlDB: r.sqlDB}
		if err := txRepo.Upsert(rows, batchSize); err != nil {
			return err
		}
		keep := make([]string, 0, len(rows))
		for _, row := range rows {
			keep = append(keep, row.ProductID)
		}
		del := tx.Where("store = ?", store)
		if len(keep) > 0 {
			del = del.Where("product_id NOT IN ?", keep)
		}
		return del.Delete(&snapshotEntity.ProductSnapshot{}).Error
	})
}

// RecordRun stores one export run.
func (r *SnapshotRepository) RecordRun(run *snapshotEntity.ExportRun) error {
	return r.db.Create(run).Error
}

// GetByLegacyID returns one product snapshot.
func (r *SnapshotRepository) GetByLegacyID(store, legacyID string) (*snapshotEntity.ProductSnapshot, error) {
	var row snapshotEntity.ProductSnapshot
	err := r.db.Where("store = ? AND legacy_id = ?", store, legacyID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %s not in snapshot for %s: %w", legacyID, store, err)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByStore returns a store's snapshot ordered by title.
func (r *SnapshotRepository) ListByStore(store string) ([]snapshotEntity.ProductSnapshot, error) {
	var rows []snapshotEntity.ProductSnapshot
	err := r.db.Where("store = ?", store).Order("title").Find(&rows).Error
	return rows, err
}

// CountByStore uses raw SQL for minimal overhead
func (r *SnapshotRepository) CountByStore(store string) (int, error) {
	const query = `SELECT COUNT(*) FROM shopify_product_snapshot WHERE store = ?`
	var n int
	err := r.sqlDB.QueryRow(query, store).Scan(&n)
	return n, err
}

// TotalInventoryByStore sums available stock across a store's snapshot
func (r *SnapshotRepository) TotalInventoryByStore(store string) (int, error) {
	const query = `SELECT COALESCE(SUM(total_inventory), 0) FROM shopify_product_snapshot WHERE store = ?`
	var total int
	err := r.sqlDB.QueryRow(query, store).Scan(&total)
	return total, err
}

// LastRun returns the most recent export run for store.
func (r *SnapshotRepository) LastRun(store string) (*snapshotEntity.ExportRun, error) {
	var run snapshotEntity.ExportRun
	if err := r.db.Where("store = ?", store).Order("run_id DESC").First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
