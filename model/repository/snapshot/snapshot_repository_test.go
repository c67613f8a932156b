package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	productEntity "shopify.GO/model/entity/product"
	snapshotEntity "shopify.GO/model/entity/snapshot"
)

func setupRepo(t *testing.T) *SnapshotRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "export.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo, err := NewSnapshotRepository(db)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	return repo
}

func row(t *testing.T, store, id, title string, qty int) snapshotEntity.ProductSnapshot {
	t.Helper()
	p := productEntity.Product{
		ID:    "gid://shopify/Product/" + id,
		Title: title,
		Tags:  []string{"mineral"},
		Variants: []productEntity.Variant{{
			SKU:   "SKU-" + id,
			Price: "10.00",
			InventoryItem: &productEntity.InventoryItem{InventoryLevels: []productEntity.InventoryLevel{{
				Location:   productEntity.Location{ID: "gid://shopify/Location/1"},
				Quantities: []productEntity.Quantity{{Name: "available", Quantity: qty}},
			}}},
		}},
	}
	s, err := snapshotEntity.FromProduct(store, p, time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}

func TestUpsertAndRead(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Upsert([]snapshotEntity.ProductSnapshot{
		row(t, "alpha", "1", "Quartz", 2),
		row(t, "alpha", "2", "Beryl", 3),
		row(t, "beta", "1", "Quartz", 7),
	}, 2))

	n, err := repo.CountByStore("alpha")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err := repo.TotalInventoryByStore("alpha")
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	rows, err := repo.ListByStore("alpha")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beryl", rows[0].Title)
	assert.Equal(t, "SKU-2", rows[0].SKU)

	got, err := repo.GetByLegacyID("beta", "1")
	require.NoError(t, err)
	p, err := got.Product()
	require.NoError(t, err)
	assert.Equal(t, 7, p.TotalInventory())

	_, err = repo.GetByLegacyID("beta", "2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertOverwrites(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Upsert([]snapshotEntity.ProductSnapshot{row(t, "alpha", "1", "Quartz", 1)}, 0))
	require.NoError(t, repo.Upsert([]snapshotEntity.ProductSnapshot{row(t, "alpha", "1", "Smoky Quartz", 4)}, 0))

	rows, err := repo.ListByStore("alpha")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Smoky Quartz", rows[0].Title)
	assert.Equal(t, 4, rows[0].TotalInventory)
}

func TestReplaceStoreDropsRemovedProducts(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Upsert([]snapshotEntity.ProductSnapshot{
		row(t, "alpha", "1", "Quartz", 1),
		row(t, "alpha", "2", "Beryl", 1),
		row(t, "beta", "9", "Topaz", 1),
	}, 0))

	require.NoError(t, repo.ReplaceStore("alpha", []snapshotEntity.ProductSnapshot{row(t, "alpha", "2", "Beryl", 5)}, 0))
	rows, err := repo.ListByStore("alpha")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].LegacyID)

	n, err := repo.CountByStore("beta")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.ReplaceStore("alpha", nil, 0))
	n, err = repo.CountByStore("alpha")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRecordRunAndLastRun(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC()
	require.NoError(t, repo.RecordRun(&snapshotEntity.ExportRun{Store: "alpha", Products: 1, Pages: 1, Stop: "exhausted", Complete: true, StartedAt: now, FinishedAt: now}))
	require.NoError(t, repo.RecordRun(&snapshotEntity.ExportRun{Store: "alpha", Products: 3, Pages: 2, Stop: "error", StartedAt: now, FinishedAt: now}))

	run, err := repo.LastRun("alpha")
	require.NoError(t, err)
	assert.Equal(t, 3, run.Products)
	assert.False(t, run.Complete)

	_, err = repo.LastRun("beta")
	assert.Error(t, err)
}
