package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/benbeisheim/typechess-backend/internal/model"
)

const fileExt = ".pchess"

// FileStore keeps one JSON file per game in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

func (s *FileStore) Load(_ context.Context, name string) (*model.Game, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read game %s", name)
	}
	return decodeGame(name, data)
}

// Save writes to a temporary file and renames it over the old snapshot, so a
// reader never sees a half-written game.
func (s *FileStore) Save(_ context.Context, g *model.Game) error {
	data, err := encodeGame(g)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, g.ID+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "save game %s", g.ID)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write game %s", g.ID)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "write game %s", g.ID)
	}
	if err := os.Rename(tmp.Name(), s.path(g.ID)); err != nil {
		return errors.Wrapf(err, "save game %s", g.ID)
	}
	return nil
}

func (s *FileStore) Exists(_ context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, errors.Wrapf(err, "stat game %s", name)
	}
}

func (s *FileStore) Close(context.Context) error { return nil }
