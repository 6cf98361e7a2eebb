package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bloxtools/bloxsync/internal/config"
	"github.com/bloxtools/bloxsync/internal/digest"
	"github.com/bloxtools/bloxsync/internal/logging"
	"github.com/bloxtools/bloxsync/internal/mapping"
	"github.com/bloxtools/bloxsync/internal/model"
	"github.com/bloxtools/bloxsync/internal/remote"
)

// ErrAssetUnreadable signals that a product declares an icon that could
// not be read. The product fails rather than silently dropping asset
// change tracking; a previously synced record stays untouched.
var ErrAssetUnreadable = errors.New("asset unreadable")

// Options configures reconciliation behavior.
type Options struct {
	// DryRun computes outcomes without remote calls or mapping mutations.
	DryRun bool

	// MaxRetries bounds rate-limit retries per remote call.
	MaxRetries int

	// BaseDelay is the first backoff delay; it doubles per retry.
	BaseDelay time.Duration

	// SaveEachProduct persists the mapping after every product that
	// mutated it, so a crash mid-run loses at most the in-flight product.
	SaveEachProduct bool

	// OnResult, when set, is invoked with each product's outcome as soon
	// as it is known. Used for streaming status output.
	OnResult func(ProductResult)
}

// DefaultOptions returns the default reconciliation options.
func DefaultOptions() Options {
	return Options{
		MaxRetries:      DefaultMaxRetries,
		BaseDelay:       DefaultBaseDelay,
		SaveEachProduct: true,
	}
}

// Reconciler converges declared products onto the Roblox platform,
// issuing the minimal remote mutation per product and recording every
// successful sync in the mapping store.
type Reconciler struct {
	gateway remote.Gateway
	retry   *retrier
	opts    Options
}

// New creates a Reconciler that mutates the platform through gateway.
func New(gateway remote.Gateway, opts Options) *Reconciler {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	return &Reconciler{
		gateway: gateway,
		retry:   newRetrier(opts.MaxRetries, opts.BaseDelay),
		opts:    opts,
	}
}

// SyncAll reconciles every declared product against the mapping store.
// Products are processed one at a time in sorted key order; one
// product's failure never aborts the others. The store is only mutated
// after a successful remote call, and persisted incrementally when
// Options.SaveEachProduct is set. Cancellation is honored at product
// boundaries and during backoff sleeps, never mid-request.
func (r *Reconciler) SyncAll(ctx context.Context, cfg *config.Config, store *mapping.Store) (*Result, error) {
	result := &Result{
		UniverseID: cfg.UniverseID,
		DryRun:     r.opts.DryRun,
		Products:   make([]ProductResult, 0, len(cfg.Products)),
	}

	keys := make([]string, 0, len(cfg.Products))
	for key := range cfg.Products {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	logging.Debug("starting reconciliation",
		logging.Universe(cfg.UniverseID),
		logging.Count(len(keys)),
	)

	for _, key := range keys {
		var pr ProductResult
		if err := ctx.Err(); err != nil {
			pr = ProductResult{
				Key:     key,
				Product: cfg.Products[key],
				Action:  ActionFailed,
				Error:   fmt.Errorf("run cancelled: %w", err),
			}
		} else {
			pr = r.syncProduct(ctx, cfg.UniverseID, key, cfg.Products[key], store)
		}

		result.Products = append(result.Products, pr)
		if r.opts.OnResult != nil {
			r.opts.OnResult(pr)
		}

		mutated := pr.Action == ActionCreated || pr.Action == ActionUpdated
		if mutated && !r.opts.DryRun && r.opts.SaveEachProduct {
			if err := store.Save(); err != nil {
				// The remote mutation already happened; losing the write
				// here must surface loudly but not fail the product.
				logging.Error("failed to persist mapping",
					logging.Product(key),
					logging.Err(err),
				)
			}
		}
	}

	logging.Debug("reconciliation completed",
		logging.Universe(cfg.UniverseID),
		logging.Count(len(result.Products)),
	)

	return result, nil
}

// syncProduct reconciles one declared product. All failures are
// converted to a failed outcome here; nothing propagates.
func (r *Reconciler) syncProduct(ctx context.Context, universeID int64, key string, p model.Product, store *mapping.Store) ProductResult {
	result := ProductResult{Key: key, Product: p}

	entry := store.Get(key)

	// An explicit product_id in the manifest always wins over the mapping.
	existingID := p.ProductID
	if existingID == 0 && entry != nil {
		existingID = entry.RobloxID
	}

	imageHash, err := digest.ForProduct(p)
	if err != nil {
		result.Action = ActionFailed
		result.Error = fmt.Errorf("%w: %w", ErrAssetUnreadable, err)
		return result
	}

	if existingID == 0 {
		return r.createProduct(ctx, universeID, key, p, imageHash, store)
	}
	return r.updateProduct(ctx, universeID, key, p, existingID, entry, imageHash, store)
}

// createProduct handles a product with no known remote identity. The
// icon, when declared, is always uploaded: there is nothing to diff
// against yet.
func (r *Reconciler) createProduct(ctx context.Context, universeID int64, key string, p model.Product, imageHash string, store *mapping.Store) ProductResult {
	result := ProductResult{Key: key, Product: p}

	if r.opts.DryRun {
		result.Action = ActionCreated
		result.Message = "would create"
		return result
	}

	req := remote.CreateRequest{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		ImagePath:   p.Image,
		Offsale:     p.Offsale,
	}

	var id int64
	err := r.retry.do(ctx, "create "+key, func(ctx context.Context) error {
		var callErr error
		switch p.Type {
		case model.GamePass:
			id, callErr = r.gateway.CreateGamePass(ctx, universeID, req)
		default:
			id, callErr = r.gateway.CreateDevProduct(ctx, universeID, req)
		}
		return callErr
	})
	if err != nil {
		result.Action = ActionFailed
		result.Error = err
		return result
	}

	entry := mapping.NewEntry(id)
	recordSync(entry, p, imageHash)
	store.Put(key, entry)

	logging.Info("created product",
		logging.Product(key),
		logging.RobloxID(id),
	)

	result.Action = ActionCreated
	result.RobloxID = id
	return result
}

// updateProduct handles a product with a known remote identity. A
// missing record (explicit product_id never synced before) forces an
// update against an empty record; the record is created after success.
func (r *Reconciler) updateProduct(ctx context.Context, universeID int64, key string, p model.Product, existingID int64, entry *mapping.Entry, imageHash string, store *mapping.Store) ProductResult {
	result := ProductResult{Key: key, Product: p, RobloxID: existingID}

	if entry != nil && !changed(p, entry, imageHash) {
		result.Action = ActionSkipped
		result.Message = "unchanged"
		return result
	}

	if r.opts.DryRun {
		result.Action = ActionUpdated
		result.Message = "would update"
		return result
	}

	// Scalars are always resent on a changed product; the icon only when
	// its digest moved, to avoid remote-side asset reprocessing.
	req := remote.UpdateRequest{
		Name:        &p.Name,
		Price:       &p.Price,
		Description: &p.Description,
	}
	if p.Type == model.GamePass {
		req.Offsale = &p.Offsale
	}
	if p.HasImage() && assetChanged(entry, imageHash) {
		req.ImagePath = p.Image
	}

	err := r.retry.do(ctx, "update "+key, func(ctx context.Context) error {
		switch p.Type {
		case model.GamePass:
			return r.gateway.UpdateGamePass(ctx, universeID, existingID, req)
		default:
			return r.gateway.UpdateDevProduct(ctx, universeID, existingID, req)
		}
	})
	if err != nil {
		result.Action = ActionFailed
		result.Error = err
		return result
	}

	if entry == nil {
		entry = mapping.NewEntry(existingID)
		store.Put(key, entry)
	}
	// Correct a stale mapping when an explicit product_id won.
	entry.RobloxID = existingID
	recordSync(entry, p, imageHash)

	logging.Info("updated product",
		logging.Product(key),
		logging.RobloxID(existingID),
	)

	result.Action = ActionUpdated
	return result
}

// recordSync overwrites the record's last-synced fields with the
// declared values that were just pushed successfully.
func recordSync(entry *mapping.Entry, p model.Product, imageHash string) {
	entry.Name = mapping.StrPtr(p.Name)
	entry.Price = mapping.Int64Ptr(p.Price)
	entry.Description = mapping.StrPtr(p.Description)
	entry.ImageHash = mapping.StrPtr(imageHash)
	if p.Type == model.GamePass {
		entry.Offsale = mapping.BoolPtr(p.Offsale)
	}
}
