package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCollection is the collection name used by MongoStore.
const MongoCollection = "drafts"

// mongoDraft keeps the draft as its JSON encoding so decimals keep their
// exact string form.
type mongoDraft struct {
	ID        string     `bson:"_id"`
	Kind      string     `bson:"kind"`
	Version   int64      `bson:"version"`
	Body      string     `bson:"body"`
	UpdatedAt time.Time  `bson:"updated_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// MongoStore keeps drafts in one collection. Documents carry expires_at,
// served by a TTL index created by EnsureIndexes.
type MongoStore struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

func NewMongoStore(db *mongo.Database, ttl time.Duration) *MongoStore {
	return &MongoStore{coll: db.Collection(MongoCollection), ttl: ttl, now: time.Now}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("drafts_expires_at"),
	})
	if err != nil {
		return fmt.Errorf("create drafts ttl index: %w", err)
	}
	return nil
}

// live matches id unless the document already expired; the TTL monitor only
// runs once a minute.
func (s *MongoStore) live(id uuid.UUID) bson.M {
	return bson.M{
		"_id": id.String(),
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": bson.M{"$gt": s.now()}},
		},
	}
}

func (s *MongoStore) Get(ctx context.Context, id uuid.UUID) (Draft, error) {
	var doc mongoDraft
	err := s.coll.FindOne(ctx, s.live(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("get draft %s: %w", id, err)
	}

	var d Draft
	if err := json.Unmarshal([]byte(doc.Body), &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

func (s *MongoStore) Save(ctx context.Context, d Draft) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}
	doc := mongoDraft{
		ID:        d.ID.String(),
		Kind:      string(d.Kind),
		Version:   d.Version,
		Body:      string(body),
		UpdatedAt: d.UpdatedAt,
	}
	if s.ttl > 0 {
		t := s.now().Add(s.ttl)
		doc.ExpiresAt = &t
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, s.live(id))
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
