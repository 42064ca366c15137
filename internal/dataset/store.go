package dataset

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
)

// Store holds the loaded calendars for all enabled categories. It is safe
// for concurrent use: the display loop reads while the watcher and the
// management API reload or drop categories.
type Store struct {
	dir string
	log *slog.Logger

	mu     sync.RWMutex
	sets   map[string]Dataset // category name -> calendar
	byFile map[string]string  // file base name -> category name
}

// NewStore creates an empty store rooted at dir.
func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		dir:    dir,
		log:    log,
		sets:   map[string]Dataset{},
		byFile: map[string]string{},
	}
}

// Dir returns the data directory the store loads from.
func (s *Store) Dir() string { return s.dir }

// LoadAll loads the calendar of every enabled category. Unreadable or
// malformed files are logged and skipped; the category is simply absent.
func (s *Store) LoadAll(categories map[string]config.CategoryConfig) {
	for name, cat := range categories {
		if !cat.Enabled {
			s.log.Debug("skipping disabled category", slog.String("category", name))
			continue
		}
		if cat.DataFile == "" {
			s.log.Warn("no data file for category", slog.String("category", name))
			continue
		}
		s.load(name, cat.DataFile)
	}
}

func (s *Store) load(name, file string) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, file)
	}
	d, err := Load(path)
	if err != nil {
		s.log.Error("dataset load failed",
			slog.String("category", name),
			slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.sets[name] = d
	s.byFile[filepath.Base(file)] = name
	s.mu.Unlock()

	s.log.Info("dataset loaded",
		slog.String("category", name),
		slog.Int("entries", len(d)))
}

// Reload re-reads a single category's file.
func (s *Store) Reload(name, file string) {
	s.load(name, file)
}

// ReloadFile re-reads the calendar backing the given file base name, if any
// loaded category uses it. It reports whether a category was matched.
func (s *Store) ReloadFile(base string) bool {
	s.mu.RLock()
	name, ok := s.byFile[base]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	s.load(name, base)
	return true
}

// Remove drops a category's calendar.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, name)
	for base, cat := range s.byFile {
		if cat == name {
			delete(s.byFile, base)
		}
	}
}

// RemoveFile drops the category backing the given file base name, if any.
func (s *Store) RemoveFile(base string) bool {
	s.mu.Lock()
	name, ok := s.byFile[base]
	if ok {
		delete(s.sets, name)
		delete(s.byFile, base)
	}
	s.mu.Unlock()
	return ok
}

// Clear drops every loaded calendar.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = map[string]Dataset{}
	s.byFile = map[string]string{}
}

// EntryFor returns the entry for the given category and ordinal day.
func (s *Store) EntryFor(name string, day int) (Entry, bool) {
	s.mu.RLock()
	d, ok := s.sets[name]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	return d.ForDay(day)
}

// Categories returns the names of the loaded categories.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sets))
	for name := range s.sets {
		names = append(names, name)
	}
	return names
}

// Len returns the number of loaded calendars.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets)
}
