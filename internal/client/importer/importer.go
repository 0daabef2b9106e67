// Package importer performs the one-time transfer of legacy local items into
// the remote store. Each item is processed in isolation, failures are counted
// rather than propagated, and the whole run is guarded by a durable marker so
// it executes at most once per profile.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ayrahq/ayra/internal/client/cache"
	"github.com/ayrahq/ayra/internal/client/models"
	"github.com/ayrahq/ayra/internal/client/notify"
	"github.com/ayrahq/ayra/internal/client/remote"
	"github.com/ayrahq/ayra/internal/client/storage"
	"github.com/ayrahq/ayra/internal/common"
	"github.com/ayrahq/ayra/internal/logging"
	"github.com/google/uuid"
)

// markerValue is what the marker key holds once the import has completed.
const markerValue = "true"

// ErrAlreadyRunning is returned when a run is requested while another run is
// still in flight in this process. The durable guarantee is the marker; this
// guard only covers overlapping triggers within one process lifetime.
var ErrAlreadyRunning = errors.New("import already running")

// Report summarizes one run.
type Report struct {
	Imported int
	Failed   int
}

// Runner owns the import flow. Construct once and reuse; Run refuses to
// overlap itself.
type Runner struct {
	store    storage.Repository
	client   remote.Client
	cache    *cache.Cache
	notifier notify.Notifier
	logger   logging.Logger

	// onComplete, when set, is invoked after a successful import so the
	// active view can reload the now-remote items.
	onComplete    func()
	completeDelay time.Duration

	running atomic.Bool
}

func NewRunner(store storage.Repository, client remote.Client, dataCache *cache.Cache, notifier notify.Notifier, logger logging.Logger) *Runner {
	return &Runner{
		store:         store,
		client:        client,
		cache:         dataCache,
		notifier:      notifier,
		logger:        logger.With("module", "importer"),
		completeDelay: 2 * time.Second,
	}
}

// SetOnComplete installs the post-import reload hook.
func (r *Runner) SetOnComplete(fn func()) {
	r.onComplete = fn
}

// Run executes the import once. The short-circuits, in order:
// the durable marker, an existing remote item (proof a previous import
// succeeded even if the marker write was lost), and a missing/empty/broken
// legacy collection. Only a batch-level failure leaves the marker unset so a
// later sign-in can retry.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyRunning
	}
	defer r.running.Store(false)

	marker, err := r.store.Get(ctx, storage.KeyMigrationDone)
	if err != nil {
		return Report{}, fmt.Errorf("marker read: %w", err)
	}
	if string(marker) == markerValue {
		r.logger.Debug(ctx, "import already done, skipping")
		return Report{}, nil
	}

	hasRemote, err := r.client.HasItems(ctx)
	if err != nil {
		// Batch-fatal: without the existence check we cannot rule out
		// duplicating a previous partial import. Marker stays unset.
		r.notifier.Error("Import failed, will retry on next sign-in")
		return Report{}, fmt.Errorf("remote existence check: %w", err)
	}
	if hasRemote {
		r.logger.Info(ctx, "remote items already present, marking import done")
		r.setMarker(ctx)
		return Report{}, nil
	}

	raw, err := r.store.Get(ctx, storage.KeyLegacyItems)
	if err != nil {
		return Report{}, fmt.Errorf("legacy collection read: %w", err)
	}
	items, err := models.ParseLegacyItems(raw)
	if err != nil {
		r.logger.Warn(ctx, "legacy collection malformed, skipping import", "error", err)
		r.setMarker(ctx)
		return Report{}, nil
	}
	if len(items) == 0 {
		r.setMarker(ctx)
		return Report{}, nil
	}

	categories := r.ensureDefaultCategories(ctx)

	var report Report
	for i, li := range items {
		if err := r.importOne(ctx, li, categories); err != nil {
			report.Failed++
			r.logger.Error(ctx, "legacy item import failed", "index", i, "error", err)
			continue
		}
		report.Imported++
	}

	if report.Imported == 0 {
		r.notifier.Error(fmt.Sprintf("Import failed for all %d items, will retry on next sign-in", report.Failed))
		return report, nil
	}

	r.setMarker(ctx)
	if err := r.store.Delete(ctx, storage.KeyLegacyItems); err != nil {
		r.logger.Error(ctx, "legacy collection cleanup failed", "error", err)
	}
	r.cache.Invalidate()

	if report.Failed > 0 {
		r.notifier.Success(fmt.Sprintf("Imported %d items (%d failed)", report.Imported, report.Failed))
	} else {
		r.notifier.Success(fmt.Sprintf("Imported %d items", report.Imported))
	}

	if r.onComplete != nil {
		time.AfterFunc(r.completeDelay, r.onComplete)
	}

	r.logger.Info(ctx, "import finished", "imported", report.Imported, "failed", report.Failed)
	return report, nil
}

// setMarker persists the durable marker. A failed write is logged, not
// fatal: the remote existence check covers the next run.
func (r *Runner) setMarker(ctx context.Context) {
	if err := r.store.Set(ctx, storage.KeyMigrationDone, []byte(markerValue)); err != nil {
		r.logger.Error(ctx, "marker write failed", "error", err)
	}
}

// ensureDefaultCategories creates the fixed category set remotely. Failures
// are per-category: a collision or error is logged and skipped, never fatal.
// Returns name -> id for every category known afterwards.
func (r *Runner) ensureDefaultCategories(ctx context.Context) map[string]string {
	byName := make(map[string]string)

	existing, err := r.client.ListCategories(ctx)
	if err != nil {
		r.logger.Warn(ctx, "category listing failed", "error", err)
	}
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	for _, name := range common.DefaultCategories {
		if _, ok := byName[name]; ok {
			continue
		}
		created, err := r.client.CreateCategory(ctx, name)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				r.logger.Warn(ctx, "category already exists", "name", name)
			} else {
				r.logger.Error(ctx, "category creation failed", "name", name, "error", err)
			}
			continue
		}
		byName[name] = created.ID
	}
	return byName
}

// importOne converts a single legacy item and creates it remotely. Any error
// counts the item as failed without touching its siblings.
func (r *Runner) importOne(ctx context.Context, li models.LegacyItem, categories map[string]string) error {
	n := li.Normalize()

	item := models.NewItem{
		Title:      n.Title,
		Type:       n.Type,
		Content:    n.Content,
		Tags:       n.Tags,
		CategoryID: categories["Personal"],
	}

	if li.HasFilePayload() {
		data, err := li.DecodeDataURL()
		if err != nil {
			return fmt.Errorf("file payload: %w", err)
		}
		name := li.FileName
		if name == "" {
			name = "import-" + uuid.NewString()
		}
		key, err := r.client.UploadFile(ctx, name, data)
		if err != nil {
			return fmt.Errorf("file upload: %w", err)
		}
		item.FileKey = key
	}

	if n.Type == models.ItemTypeLink && n.URL != "" {
		item.URL = n.URL
	}

	created, err := r.client.CreateItem(ctx, item)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	if !n.CreatedAt.IsZero() {
		// Best-effort: preserving the original timestamp is cosmetic and
		// must not fail the item.
		if err := r.client.BackdateItem(ctx, created.ID, n.CreatedAt); err != nil {
			r.logger.Warn(ctx, "timestamp backdate failed", "item", created.ID, "error", err)
		}
	}

	return nil
}
