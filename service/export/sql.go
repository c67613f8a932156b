package export

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	snapshotEntity "shopify.GO/model/entity/snapshot"
	snapshotRepo "shopify.GO/model/repository/snapshot"
)

// SQLSink replaces the store's rows in the snapshot table and records the run.
type SQLSink struct {
	db        *gorm.DB
	repo      *snapshotRepo.SnapshotRepository
	batchSize int
}

// NewSQLSink migrates the snapshot tables before returning.
func NewSQLSink(db *gorm.DB, batchSize int) (*SQLSink, error) {
	repo, err := snapshotRepo.NewSnapshotRepository(db)
	if err != nil {
		return nil, err
	}
	if err := repo.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate snapshot tables: %w", err)
	}
	return &SQLSink{db: db, repo: repo, batchSize: batchSize}, nil
}

func (s *SQLSink) Name() string { return "sql" }

func (s *SQLSink) Repository() *snapshotRepo.SnapshotRepository { return s.repo }

func (s *SQLSink) Write(ctx context.Context, batch *Batch) (int, error) {
	rows := make([]snapshotEntity.ProductSnapshot, 0, len(batch.Products))
	for _, p := range batch.Products {
		row, err := snapshotEntity.FromProduct(batch.Store, p, batch.ExportedAt)
		if err != nil {
			return 0, fmt.Errorf("snapshot %s: %w", p.ID, err)
		}
		rows = append(rows, row)
	}

	// A partial listing only adds and updates rows.
	var err error
	if batch.Complete {
		err = s.repo.ReplaceStore(batch.Store, rows, s.batchSize)
	} else {
		err = s.repo.Upsert(rows, s.batchSize)
	}
	if err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}

	run := &snapshotEntity.ExportRun{
		Store:      batch.Store,
		Products:   len(rows),
		Pages:      batch.Pages,
		Stop:       batch.Stop,
		Complete:   batch.Complete,
		StartedAt:  batch.StartedAt,
		FinishedAt: batch.ExportedAt,
	}
	if err := s.repo.RecordRun(run); err != nil {
		return len(rows), fmt.Errorf("record export run: %w", err)
	}
	return len(rows), nil
}

func (s *SQLSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
