// Package worldbook implements the keyworded entry store the diaries are
// persisted into. Each book is a single JSON document round-tripped whole on
// every mutation, matching the host worldbook format: a mapping of entry uid
// to {uid, comment, key[], content, enabled}.
package worldbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/EtafCisky/sillytavernDIARY/diary"
	"github.com/EtafCisky/sillytavernDIARY/internal/fsstore"
	"github.com/google/uuid"
)

// DefaultBookName is the fixed book all diaries go into.
const DefaultBookName = "日记本"

// Sentinels for label parts that could not be recovered, matching the host
// UI's display strings.
const (
	UnknownTitle  = "无标题"
	UnknownTime   = "未知时间"
	UnknownAuthor = "未知角色"
)

var (
	ErrEntryNotFound = errors.New("worldbook: entry not found")
	ErrBookCorrupted = errors.New("worldbook: book document corrupted")
)

// Entry is the persisted worldbook record. Comment carries the derived
// "<title>-<time>" label; Key binds the entry to its author tag.
type Entry struct {
	UID     string   `json:"uid"`
	Comment string   `json:"comment"`
	Key     []string `json:"key"`
	Content string   `json:"content"`
	Enabled bool     `json:"enabled"`
}

type book struct {
	Entries map[string]Entry `json:"entries"`
}

// Info is a parsed listing row: the entry label split back into title/time.
type Info struct {
	UID     string
	Title   string
	Time    string
	Content string
}

// Detail is the full browsing view of one entry, author included.
type Detail struct {
	Info
	Author string
}

// AuthorCount pairs an author tag with how many diaries carry it.
type AuthorCount struct {
	Name  string
	Count int
}

// Store adapts diary records onto one named book inside a directory of books.
// Mutations are serialized through an advisory lock; the document itself is
// still whole-document read-modify-write.
type Store struct {
	Dir      string
	LocksDir string
	Name     string
}

func NewStore(dir, locksDir string) *Store {
	return &Store{Dir: dir, LocksDir: locksDir, Name: DefaultBookName}
}

func (s *Store) bookPath() string {
	return filepath.Join(s.Dir, s.Name+".json")
}

func (s *Store) lockPath() (string, error) {
	return fsstore.BuildLockPath(s.LocksDir, "worldbook.diary")
}

// EnsureExists creates the book non-interactively when absent. Repeated calls
// after success are no-ops that report true.
func (s *Store) EnsureExists() (bool, error) {
	if _, err := os.Stat(s.bookPath()); err == nil {
		return true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("worldbook: stat book: %w", err)
	}
	empty := book{Entries: map[string]Entry{}}
	if err := fsstore.WriteJSONAtomic(s.bookPath(), empty, fsstore.FileOptions{}); err != nil {
		return false, fmt.Errorf("worldbook: create book %s: %w", s.Name, err)
	}
	return true, nil
}

// load reads the whole book. strict=false treats a missing or malformed
// document as an empty book; strict=true surfaces it so writers cannot
// silently clobber data they failed to read.
func (s *Store) load(strict bool) (book, error) {
	var b book
	ok, err := fsstore.ReadJSON(s.bookPath(), &b)
	if err != nil {
		if strict {
			return book{}, fmt.Errorf("%w: %v", ErrBookCorrupted, err)
		}
		return book{Entries: map[string]Entry{}}, nil
	}
	if !ok || b.Entries == nil {
		if strict && !ok {
			return book{}, fmt.Errorf("%w: book %s missing", ErrBookCorrupted, s.Name)
		}
		b.Entries = map[string]Entry{}
	}
	return b, nil
}

// Save appends the record as a fresh entry and writes the book back. The uid
// is store-assigned and returned for bookkeeping.
func (s *Store) Save(ctx context.Context, rec *diary.Record, author string) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("worldbook: nil record")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		return "", fmt.Errorf("worldbook: empty author tag")
	}

	lock, err := s.lockPath()
	if err != nil {
		return "", err
	}
	uid := uuid.NewString()
	err = fsstore.WithLock(ctx, lock, func() error {
		b, err := s.load(true)
		if err != nil {
			return err
		}
		b.Entries[uid] = Entry{
			UID:     uid,
			Comment: rec.Title + "-" + rec.Time,
			Key:     []string{author},
			Content: rec.Content,
			Enabled: true,
		}
		return fsstore.WriteJSONAtomic(s.bookPath(), b, fsstore.FileOptions{})
	})
	if err != nil {
		return "", err
	}
	return uid, nil
}

// ListByAuthor returns the diaries whose keyword set contains the author tag,
// newest time first. A missing or malformed book yields an empty list.
func (s *Store) ListByAuthor(author string) ([]Info, error) {
	b, err := s.load(false)
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, e := range b.Entries {
		if !containsKey(e.Key, author) {
			continue
		}
		title, time := splitLabel(e.Comment)
		out = append(out, Info{UID: e.UID, Title: title, Time: time, Content: e.Content})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time > out[j].Time
		}
		return out[i].UID < out[j].UID
	})
	return out, nil
}

// Authors returns the distinct author tags with diary counts, sorted by name.
func (s *Store) Authors() ([]AuthorCount, error) {
	b, err := s.load(false)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, e := range b.Entries {
		if len(e.Key) == 0 {
			continue
		}
		name := strings.TrimSpace(e.Key[0])
		if name == "" {
			continue
		}
		counts[name]++
	}
	out := make([]AuthorCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, AuthorCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get loads one entry by uid for the detail view.
func (s *Store) Get(uid string) (*Detail, error) {
	b, err := s.load(false)
	if err != nil {
		return nil, err
	}
	e, ok := b.Entries[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, uid)
	}
	title, time := splitLabel(e.Comment)
	author := UnknownAuthor
	if len(e.Key) > 0 && strings.TrimSpace(e.Key[0]) != "" {
		author = e.Key[0]
	}
	return &Detail{
		Info:   Info{UID: e.UID, Title: title, Time: time, Content: e.Content},
		Author: author,
	}, nil
}

// Delete removes the entry by uid and writes the book back. Deleting an
// absent uid fails without altering the store.
func (s *Store) Delete(ctx context.Context, uid string) error {
	lock, err := s.lockPath()
	if err != nil {
		return err
	}
	return fsstore.WithLock(ctx, lock, func() error {
		b, err := s.load(true)
		if err != nil {
			return err
		}
		if _, ok := b.Entries[uid]; !ok {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, uid)
		}
		delete(b.Entries, uid)
		return fsstore.WriteJSONAtomic(s.bookPath(), b, fsstore.FileOptions{})
	})
}

// splitLabel recovers the title/time pair from a "<title>-<time>" label.
// Labels without a hyphen keep the whole label as title.
func splitLabel(label string) (title, time string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return UnknownTitle, UnknownTime
	}
	parts := strings.SplitN(label, "-", 2)
	if len(parts) < 2 {
		return label, UnknownTime
	}
	title = strings.TrimSpace(parts[0])
	time = strings.TrimSpace(parts[1])
	if title == "" {
		title = UnknownTitle
	}
	if time == "" {
		time = UnknownTime
	}
	return title, time
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}
