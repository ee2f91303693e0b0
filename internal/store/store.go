// Package store persists game sessions. Every implementation stores the whole
// game, timeline included, as one JSON snapshot.
package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/benbeisheim/typechess-backend/internal/model"
)

var (
	ErrNotFound    = errors.New("game not found")
	ErrInvalidName = errors.New("invalid game name")
)

type Store interface {
	// Load returns ErrNotFound when no game is stored under name.
	Load(ctx context.Context, name string) (*model.Game, error)
	// Save overwrites whatever is stored under the game's ID.
	Save(ctx context.Context, g *model.Game) error
	Exists(ctx context.Context, name string) (bool, error)
	Close(ctx context.Context) error
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

func encodeGame(g *model.Game) ([]byte, error) {
	if err := validateName(g.ID); err != nil {
		return nil, err
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, errors.Wrapf(err, "encode game %s", g.ID)
	}
	return data, nil
}

func decodeGame(name string, data []byte) (*model.Game, error) {
	var g model.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrapf(err, "decode game %s", name)
	}
	if g.Timeline == nil || g.Timeline.Len() == 0 {
		return nil, errors.Errorf("decode game %s: empty timeline", name)
	}
	if _, ok := g.Timeline.Current(); !ok {
		return nil, errors.Errorf("decode game %s: cursor %d out of range", name, g.Timeline.Cursor)
	}
	return &g, nil
}
