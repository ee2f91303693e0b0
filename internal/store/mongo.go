package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/benbeisheim/typechess-backend/internal/model"
)

const gamesCollection = "games"

type gameDocument struct {
	ID        string    `bson:"_id"`
	Snapshot  string    `bson:"snapshot"`
	Winner    string    `bson:"winner"`
	TurnCount int       `bson:"turnCount"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps one document per game. The snapshot field holds the same
// JSON the other stores write; winner and turn count are copied out for queries.
type MongoStore struct {
	client *mongo.Client
	games  *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		games:  client.Database(database).Collection(gamesCollection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*model.Game, error) {
	var doc gameDocument
	err := s.games.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load game %s", name)
	}
	return decodeGame(name, []byte(doc.Snapshot))
}

func (s *MongoStore) Save(ctx context.Context, g *model.Game) error {
	data, err := encodeGame(g)
	if err != nil {
		return err
	}
	state := g.CurrentState()
	doc := gameDocument{
		ID:        g.ID,
		Snapshot:  string(data),
		Winner:    string(state.Winner),
		TurnCount: state.TurnCount,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	_, err = s.games.ReplaceOne(ctx, bson.M{"_id": g.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "save game %s", g.ID)
	}
	return nil
}

func (s *MongoStore) Exists(ctx context.Context, name string) (bool, error) {
	n, err := s.games.CountDocuments(ctx, bson.M{"_id": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrapf(err, "count game %s", name)
	}
	return n > 0, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "disconnect from mongo")
}
