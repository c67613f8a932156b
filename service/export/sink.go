// Package export writes a fetched catalog to one or more outputs.
package export

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	productEntity "shopify.GO/model/entity/product"
)

// ErrPartialListing refuses to export a catalog whose listing stopped early.
var ErrPartialListing = errors.New("listing is incomplete")

// Batch is one catalog read, ready to export.
type Batch struct {
	Store      string
	Products   []productEntity.Product
	Pages      int
	Stop       string
	Complete   bool
	StartedAt  time.Time
	ExportedAt time.Time
}

// Sink is one export destination.
type Sink interface {
	Name() string
	Write(ctx context.Context, batch *Batch) (int, error)
	Close() error
}

// Report is the outcome of one sink.
type Report struct {
	Sink    string
	Written int
	Took    time.Duration
	Err     error
}

// Run writes batch to every sink, one after the other. A failing sink does
// not stop the others.
func Run(ctx context.Context, log *zap.Logger, batch *Batch, sinks ...Sink) []Report {
	if log == nil {
		log = zap.NewNop()
	}
	if batch.ExportedAt.IsZero() {
		batch.ExportedAt = time.Now().UTC()
	}
	reports := make([]Report, 0, len(sinks))
	for _, s := range sinks {
		start := time.Now()
		n, err := s.Write(ctx, batch)
		r := Report{Sink: s.Name(), Written: n, Took: time.Since(start), Err: err}
		reports = append(reports, r)
		if err != nil {
			log.Error("export sink failed", zap.String("sink", r.Sink), zap.String("store", batch.Store), zap.Error(err))
			continue
		}
		log.Info("export sink done", zap.String("sink", r.Sink), zap.String("store", batch.Store), zap.Int("written", n), zap.Duration("took", r.Took))
	}
	return reports
}

// FirstError returns the first sink error, if any.
func FirstError(reports []Report) error {
	for _, r := range reports {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// CloseAll closes every sink and joins the errors.
func CloseAll(sinks ...Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
