// Package trash keeps deleted files recoverable. Each deletion becomes a slot
// named "{id}_{basename}" in the trash directory; a small diskv catalog next
// to the slots remembers where each one came from.
package trash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/fsh/pkg/fsutil"
)

const catalogDir = ".catalog"

// Slot describes one trashed item.
type Slot struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Original string    `json:"original,omitempty"`
	Deleted  time.Time `json:"deleted"`
}

// Bin is a trash directory.
type Bin struct {
	dir     string
	catalog *diskv.Diskv

	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// Open prepares dir as a trash directory, creating it if needed.
func Open(dir string) (*Bin, error) {
	if dir == "" {
		return nil, errors.New("trash: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("trash: ensure directory: %w", err)
	}
	return &Bin{
		dir: dir,
		catalog: diskv.New(diskv.Options{
			BasePath:          filepath.Join(dir, catalogDir),
			AdvancedTransform: flatTransform,
			InverseTransform:  flatInverse,
			CacheSizeMax:      64 * 1024,
		}),
		now: time.Now,
	}, nil
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

func flatInverse(pk *diskv.PathKey) string {
	return pk.FileName
}

// Dir is the trash directory.
func (b *Bin) Dir() string {
	return b.dir
}

// SlotName is the file name a deletion of original with the given id uses.
func SlotName(id, original string) string {
	return id + "_" + filepath.Base(original)
}

// SlotPath is where the slot for id and original lives.
func (b *Bin) SlotPath(id, original string) string {
	return filepath.Join(b.dir, SlotName(id, original))
}

// nextID returns a nanosecond timestamp that is strictly greater than every id
// this Bin handed out before, even if the clock stalls or steps back.
func (b *Bin) nextID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.now().UnixNano()
	if id <= b.last {
		id = b.last + 1
	}
	b.last = id
	return strconv.FormatInt(id, 10)
}

// Put moves path into the trash and returns the slot that now holds it.
func (b *Bin) Put(ctx context.Context, path string) (Slot, error) {
	id := b.nextID()
	slot := Slot{
		ID:       id,
		Name:     SlotName(id, path),
		Original: path,
		Deleted:  b.now(),
	}
	rec, err := json.Marshal(slot)
	if err != nil {
		return Slot{}, fmt.Errorf("trash: encode slot: %w", err)
	}
	if err := b.catalog.Write(slot.Name, rec); err != nil {
		return Slot{}, fmt.Errorf("trash: record slot: %w", err)
	}
	if err := fsutil.Move(ctx, path, filepath.Join(b.dir, slot.Name)); err != nil {
		_ = b.catalog.Erase(slot.Name)
		return Slot{}, err
	}
	return slot, nil
}

// Restore moves the slot for id back to original. It refuses to overwrite an
// existing original.
func (b *Bin) Restore(ctx context.Context, id, original string) error {
	name := SlotName(id, original)
	from := filepath.Join(b.dir, name)
	if !fsutil.Exists(from) {
		return fmt.Errorf("trash: slot %s is missing", name)
	}
	if fsutil.Exists(original) {
		return fmt.Errorf("trash: cannot restore over existing %s", original)
	}
	if err := os.MkdirAll(filepath.Dir(original), 0o755); err != nil {
		return fmt.Errorf("trash: recreate parent: %w", err)
	}
	if err := fsutil.Move(ctx, from, original); err != nil {
		return err
	}
	if b.catalog.Has(name) {
		_ = b.catalog.Erase(name)
	}
	return nil
}

// Purge permanently deletes the slot for id.
func (b *Bin) Purge(id, original string) error {
	name := SlotName(id, original)
	if err := fsutil.Remove(filepath.Join(b.dir, name)); err != nil {
		return err
	}
	if b.catalog.Has(name) {
		_ = b.catalog.Erase(name)
	}
	return nil
}

// List returns the slots in the trash, newest first. Slots the catalog does
// not know about are listed without an original path.
func (b *Bin) List(ctx context.Context) ([]Slot, error) {
	des, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("trash: read directory: %w", err)
	}
	slots := make([]Slot, 0, len(des))
	for _, de := range des {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := de.Name()
		if name == catalogDir {
			continue
		}
		id, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		slot := Slot{ID: id, Name: name}
		if rec, err := b.catalog.Read(name); err == nil {
			_ = json.Unmarshal(rec, &slot)
		} else if info, err := de.Info(); err == nil {
			slot.Deleted = info.ModTime()
		}
		slots = append(slots, slot)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		li, _ := strconv.ParseInt(slots[i].ID, 10, 64)
		lj, _ := strconv.ParseInt(slots[j].ID, 10, 64)
		return li > lj
	})
	return slots, nil
}
