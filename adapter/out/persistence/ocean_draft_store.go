package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"ocean_server/core/domain"
	"ocean_server/core/port/out"
)

// FileDraftStore implements out.DraftStore with a single-owner
// in-memory table flushed to one JSON file. Every mutation holds the
// lock and flushes atomically (write temp file, then rename), so
// concurrent writers cannot lose each other's updates.
type FileDraftStore struct {
	mu     sync.Mutex
	path   string
	drafts []domain.Draft
	log    zerolog.Logger
}

// NewFileDraftStore loads the existing collection from path, creating
// the parent directory if needed. A missing file means an empty
// collection.
func NewFileDraftStore(path string, log zerolog.Logger) (*FileDraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create drafts dir: %w", err)
	}

	store := &FileDraftStore{
		path:   path,
		drafts: []domain.Draft{},
		log:    log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("read drafts file: %w", err)
	}

	if err := json.Unmarshal(data, &store.drafts); err != nil {
		return nil, fmt.Errorf("decode drafts file: %w", err)
	}

	log.Info().Int("count", len(store.drafts)).Str("path", path).Msg("draft store loaded")
	return store, nil
}

// List returns a copy of the full current collection.
func (s *FileDraftStore) List() ([]domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := make([]domain.Draft, len(s.drafts))
	copy(drafts, s.drafts)
	return drafts, nil
}

// Save upserts by id: an existing id is replaced in place, a new id is
// appended.
func (s *FileDraftStore) Save(draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.drafts {
		if s.drafts[i].ID == draft.ID {
			s.drafts[i] = draft
			replaced = true
			break
		}
	}
	if !replaced {
		s.drafts = append(s.drafts, draft)
	}

	if err := s.flush(); err != nil {
		return err
	}

	s.log.Debug().Str("id", draft.ID).Bool("replaced", replaced).Msg("draft saved")
	return nil
}

// Delete removes the draft with the given id. Unknown ids are ignored.
func (s *FileDraftStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.drafts[:0]
	for _, d := range s.drafts {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.drafts = kept

	return s.flush()
}

// flush writes the whole collection to a temp file and renames it over
// the target. Callers must hold the lock.
func (s *FileDraftStore) flush() error {
	data, err := json.MarshalIndent(s.drafts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode drafts: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write drafts temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace drafts file: %w", err)
	}

	return nil
}

var _ out.DraftStore = (*FileDraftStore)(nil)
