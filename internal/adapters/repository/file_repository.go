package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/infrastructure/logger"
	"github.com/pantrykeeper/core/internal/ports"
)

// FileRepository persists the inventory envelope as a single JSON file with a
// parallel *.backup.json mirror of the last-known-good contents.
//
// The whole collection lives in memory; every mutating call holds the write
// lock across validate-mutate-persist so the backup/rename sequence never
// interleaves. Reads take the read lock and return deep copies.
type FileRepository struct {
	mu      sync.RWMutex
	primary string
	backup  string
	logger  *logger.Logger
	db      entities.Database
}

// NewFileRepository creates the storage directory if needed and runs the load
// sequence. Only directory creation is fatal: a missing or corrupt data file
// degrades to a freshly initialized envelope.
func NewFileRepository(primary, backup string, log *logger.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(primary), 0o755); err != nil {
		return nil, &entities.DatabaseError{Op: "initialize", Err: fmt.Errorf("create data directory: %w", err)}
	}

	r := &FileRepository{
		primary: primary,
		backup:  backup,
		logger:  log,
	}
	r.load()
	return r, nil
}

// rawEnvelope defers item decoding so one corrupt record cannot take down the
// whole load.
type rawEnvelope struct {
	Items        json.RawMessage `json:"items"`
	LastModified time.Time       `json:"lastModified"`
	Version      string          `json:"version"`
}

// load implements the recovery ladder: primary, then backup (adopting it and
// rewriting the primary), then an empty envelope written out immediately.
func (r *FileRepository) load() {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta, rawItems, err := readEnvelope(r.primary)
	if err != nil {
		r.logger.Warnw("Primary data file unusable", "path", r.primary, "error", err.Error())

		meta, rawItems, err = readEnvelope(r.backup)
		if err == nil {
			// Repair-on-read: the backup becomes the new primary right away.
			// A direct copy keeps the backup intact and the primary identical
			// to it; the generic save path would first mirror the corrupt
			// primary over the good backup.
			r.adopt(meta, rawItems)
			if cerr := copyFile(r.backup, r.primary); cerr != nil {
				r.logger.Warnw("Primary repair failed", "path", r.primary, "error", cerr.Error())
			} else {
				r.logger.LogStoreRepair(r.primary, r.backup)
			}
			if meta.Version == "" {
				_ = r.persistLocked()
			}
			return
		}

		r.logger.Warnw("Backup data file unusable, initializing empty envelope",
			"path", r.backup, "error", err.Error())
		r.db = entities.Database{Items: []entities.FoodItem{}, Version: entities.SchemaVersion}
		_ = r.persistLocked()
		return
	}

	r.adopt(meta, rawItems)
	if meta.Version == "" {
		// Backfill once so older files pick up the version field.
		_ = r.persistLocked()
	}
}

// adopt decodes and revalidates every record, dropping (and logging) the ones
// that fail so a single corrupt record never blocks the store.
func (r *FileRepository) adopt(meta rawEnvelope, rawItems []json.RawMessage) {
	items := make([]entities.FoodItem, 0, len(rawItems))
	for _, raw := range rawItems {
		var item entities.FoodItem
		if err := json.Unmarshal(raw, &item); err != nil {
			r.logger.LogDroppedItem("", fmt.Errorf("undecodable record: %w", err))
			continue
		}
		if err := item.Validate(); err != nil {
			r.logger.LogDroppedItem(item.ID, err)
			continue
		}
		items = append(items, item)
	}

	version := meta.Version
	if version == "" {
		version = entities.SchemaVersion
	}
	r.db = entities.Database{
		Items:        items,
		LastModified: meta.LastModified,
		Version:      version,
	}
}

// readEnvelope parses path into envelope metadata plus undecoded items. An
// envelope whose items field is not a JSON array is rejected wholesale.
func readEnvelope(path string) (rawEnvelope, []json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rawEnvelope{}, nil, err
	}

	var meta rawEnvelope
	if err := json.Unmarshal(data, &meta); err != nil {
		return rawEnvelope{}, nil, fmt.Errorf("malformed envelope: %w", err)
	}
	// A JSON null would decode into a nil slice below; treat it like a
	// missing field, not an empty collection.
	if len(meta.Items) == 0 || string(meta.Items) == "null" {
		return rawEnvelope{}, nil, fmt.Errorf("envelope has no items field")
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(meta.Items, &rawItems); err != nil {
		return rawEnvelope{}, nil, fmt.Errorf("items field is not a sequence: %w", err)
	}
	return meta, rawItems, nil
}

// persistLocked runs the durable-write sequence; callers must hold the write
// lock. The in-memory state is not rolled back on failure: the next
// successful save will carry the mutation.
func (r *FileRepository) persistLocked() error {
	// Mirror the current primary before replacing it. The primary may
	// legitimately not exist yet, so this step is best-effort.
	if _, err := os.Stat(r.primary); err == nil {
		if err := copyFile(r.primary, r.backup); err != nil {
			r.logger.Warnw("Backup copy failed", "path", r.backup, "error", err.Error())
		}
	}

	r.db.LastModified = time.Now().UTC()

	data, err := json.MarshalIndent(&r.db, "", "  ")
	if err != nil {
		return &entities.DatabaseError{Op: "save", Err: fmt.Errorf("marshal envelope: %w", err)}
	}

	// Write to a temp file in the same directory and rename over the primary
	// so a reader never observes a partially written file.
	tmp, err := os.CreateTemp(filepath.Dir(r.primary), ".inventory-*")
	if err != nil {
		r.logger.LogSaveFailure(r.primary, err)
		return &entities.DatabaseError{Op: "save", Err: err}
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		r.logger.LogSaveFailure(r.primary, err)
		return &entities.DatabaseError{Op: "save", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		r.logger.LogSaveFailure(r.primary, err)
		return &entities.DatabaseError{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		r.logger.LogSaveFailure(r.primary, err)
		return &entities.DatabaseError{Op: "save", Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		r.logger.LogSaveFailure(r.primary, err)
		return &entities.DatabaseError{Op: "save", Err: err}
	}
	if err := os.Rename(tmp.Name(), r.primary); err != nil {
		r.logger.LogSaveFailure(r.primary, err)
		return &entities.DatabaseError{Op: "save", Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// List returns a filtered, sorted snapshot. It never mutates the envelope.
func (r *FileRepository) List(ctx context.Context, filter ports.ItemFilter) ([]entities.FoodItem, error) {
	r.mu.RLock()
	snapshot := make([]entities.FoodItem, 0, len(r.db.Items))
	for i := range r.db.Items {
		snapshot = append(snapshot, r.db.Items[i].Clone())
	}
	r.mu.RUnlock()

	return applyFilter(snapshot, filter, time.Now()), nil
}

// GetByID returns the matching record or a NotFoundError.
func (r *FileRepository) GetByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.db.Items {
		if r.db.Items[i].ID == id {
			item := r.db.Items[i].Clone()
			return &item, nil
		}
	}
	return nil, &entities.NotFoundError{Selector: "id", Value: id}
}

// FindByName returns the first case-insensitive exact name match.
func (r *FileRepository) FindByName(ctx context.Context, name string) (*entities.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.db.Items {
		if strings.EqualFold(r.db.Items[i].Name, name) {
			item := r.db.Items[i].Clone()
			return &item, nil
		}
	}
	return nil, &entities.NotFoundError{Selector: "name", Value: name}
}

// Insert appends the item and persists. The item is kept in memory even when
// the durable write fails.
func (r *FileRepository) Insert(ctx context.Context, item *entities.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.db.Items = append(r.db.Items, item.Clone())
	return r.persistLocked()
}

// Mutate applies a change to the record with the given id under the write
// lock, so the lookup, the change, and the persist form one critical section.
// The apply callback receives a copy; an error from it leaves the stored
// record untouched and skips the save.
func (r *FileRepository) Mutate(ctx context.Context, id string, apply func(*entities.FoodItem) error) (*entities.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.db.Items {
		if r.db.Items[i].ID != id {
			continue
		}
		changed := r.db.Items[i].Clone()
		if err := apply(&changed); err != nil {
			return nil, err
		}
		r.db.Items[i] = changed.Clone()
		if err := r.persistLocked(); err != nil {
			return nil, err
		}
		return &changed, nil
	}
	return nil, &entities.NotFoundError{Selector: "id", Value: id}
}

// Delete removes the record with the given id, persists, and returns it.
func (r *FileRepository) Delete(ctx context.Context, id string) (*entities.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.db.Items {
		if r.db.Items[i].ID == id {
			removed := r.db.Items[i].Clone()
			r.db.Items = append(r.db.Items[:i], r.db.Items[i+1:]...)
			if err := r.persistLocked(); err != nil {
				return nil, err
			}
			return &removed, nil
		}
	}
	return nil, &entities.NotFoundError{Selector: "id", Value: id}
}

// Stats summarizes the current envelope.
func (r *FileRepository) Stats(ctx context.Context) (*entities.InventoryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := r.db.Summarize(time.Now())
	return &stats, nil
}
