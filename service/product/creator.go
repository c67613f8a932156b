package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"shopify.GO/core/admin"
	productEntity "shopify.GO/model/entity/product"
	"shopify.GO/service/media"
)

// State is the position of one create run.
type State int

const (
	StateIdle State = iota
	StateUploadRequested
	StateBytesSent
	StateRecordCreated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploadRequested:
		return "upload-requested"
	case StateBytesSent:
		return "bytes-sent"
	case StateRecordCreated:
		return "record-created"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrCreatorUsed = errors.New("creator already ran")

// Creator runs stage, transfer and create once, in that order. A failed
// step leaves it in StateFailed; nothing already done is undone.
type Creator struct {
	cfg        admin.Config
	httpClient *http.Client
	log        *zap.Logger

	state   State
	history []State
	targets []productEntity.StagedTarget
	product *productEntity.Product
}

func NewCreator(cfg admin.Config, log *zap.Logger) *Creator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Creator{cfg: cfg, httpClient: cfg.HTTPClient, log: log}
	c.history = []State{StateIdle}
	return c
}

func (c *Creator) State() State { return c.state }

// History lists every state entered, starting with StateIdle.
func (c *Creator) History() []State {
	return append([]State(nil), c.history...)
}

// Targets are the staged targets handed out for this run.
func (c *Creator) Targets() []productEntity.StagedTarget { return c.targets }

func (c *Creator) Product() *productEntity.Product { return c.product }

func (c *Creator) enter(s State) {
	c.state = s
	c.history = append(c.history, s)
	c.log.Debug("product create", zap.Stringer("state", s))
}

func (c *Creator) fail(err error) error {
	c.log.Warn("product create failed", zap.Stringer("after", c.state), zap.Error(err))
	c.enter(StateFailed)
	return err
}

// Create stages and transfers every file, then creates the product with the
// files referenced by resourceUrl and the definition's videos. Without
// files the run goes straight from idle to created.
func (c *Creator) Create(ctx context.Context, def *Definition, files []*media.File) (*productEntity.Product, error) {
	if c.state != StateIdle {
		return nil, ErrCreatorUsed
	}
	if err := def.Validate(); err != nil {
		return nil, c.fail(fmt.Errorf("invalid product definition: %w", err))
	}

	refs := make([]MediaReference, 0, len(files)+len(def.Videos))
	if len(files) > 0 {
		inputs := make([]productEntity.StagedUploadInput, 0, len(files))
		for _, f := range files {
			inputs = append(inputs, f.StagedInput())
		}
		targets, err := BeginUpload(ctx, c.cfg, inputs...)
		if err != nil {
			return nil, c.fail(err)
		}
		c.targets = targets
		c.enter(StateUploadRequested)

		for i, f := range files {
			if err := PutBytes(ctx, c.httpClient, targets[i], f); err != nil {
				return nil, c.fail(fmt.Errorf("upload %s: %w", f.Name, err))
			}
			c.log.Info("staged upload sent", zap.String("file", f.Name), zap.Int("bytes", len(f.Data)))
			refs = append(refs, ImageReference(targets[i], def.Title))
		}
		c.enter(StateBytesSent)
	}
	for _, v := range def.Videos {
		refs = append(refs, VideoReference(v, ""))
	}

	p, err := CreateWithMedia(ctx, c.cfg, def, refs)
	if err != nil {
		return nil, c.fail(err)
	}
	c.product = p
	c.enter(StateRecordCreated)
	return p, nil
}
