package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"naval-chess/internal/room"
)

const fileExt = ".msgpack"

// FileStore writes one msgpack file per match under dir. Writes go through a
// temp file and a rename so a crash never leaves a torn record.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) (string, bool) {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return "", false
	}
	return filepath.Join(s.dir, id+fileExt), true
}

func (s *FileStore) LoadMatch(ctx context.Context, id string) (*room.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := s.path(id)
	if !ok {
		return nil, room.ErrNotFound
	}
	s.mu.Lock()
	data, err := os.ReadFile(p)
	s.mu.Unlock()
	if os.IsNotExist(err) {
		return nil, room.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read match %s", id)
	}
	return decodeMatch(data)
}

func (s *FileStore) SaveMatch(ctx context.Context, m *room.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, ok := s.path(m.ID)
	if !ok {
		return errors.Errorf("invalid match id %q", m.ID)
	}
	data, err := encodeMatch(m)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.CreateTemp(s.dir, m.ID+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "write match %s", m.ID)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "sync match %s", m.ID)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "close match %s", m.ID)
	}
	return errors.Wrapf(os.Rename(tmp, p), "commit match %s", m.ID)
}

// MatchIDs lists the ids of every stored match.
func (s *FileStore) MatchIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	entries, err := os.ReadDir(s.dir)
	s.mu.Unlock()
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", s.dir)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}
	return ids, nil
}
