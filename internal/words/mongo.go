// internal/words/mongo.go
//
// MongoDB Backend for the accepted-word catalogue.
//
// All buckets live in one collection ("accepted_words") with a unique index
// on text and a compound (length, text) index for listing. Duplicate-key
// errors are mapped to apperr.Conflict; a rename is one atomic
// findOneAndUpdate on the document.

package words

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gameshub/wordme/internal/apperr"
)

const wordsCollection = "accepted_words"

// wordDoc is the stored shape of a Word.
type wordDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Length    int                `bson:"length"`
	CreatedBy string             `bson:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d wordDoc) word() Word {
	return Word{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Length:    d.Length,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoStore implements Backend on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// RetryPolicy controls how OpenMongo waits for the server to come up.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry waits up to ~40s for a freshly started container.
var DefaultRetry = RetryPolicy{Attempts: 20, Delay: 2 * time.Second}

// OpenMongo connects to uri, retrying per policy, and ensures indexes on
// database dbName.
func OpenMongo(ctx context.Context, uri, dbName string, policy RetryPolicy) (*MongoStore, error) {
	client, err := connectWithRetry(ctx, uri, policy)
	if err != nil {
		return nil, err
	}

	coll := client.Database(dbName).Collection(wordsCollection)
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "text", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("text_unique"),
		},
		{
			Keys:    bson.D{{Key: "length", Value: 1}, {Key: "text", Value: 1}},
			Options: options.Index().SetName("length_text"),
		},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("creating indexes: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func connectWithRetry(ctx context.Context, uri string, policy RetryPolicy) (*mongo.Client, error) {
	attempts := max(1, policy.Attempts)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			if err = client.Ping(ctx, readpref.Primary()); err == nil {
				log.Info().Int("attempt", attempt).Msg("mongodb connected")
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("of", attempts).Msg("mongodb unavailable, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Delay):
		}
	}
	return nil, fmt.Errorf("connecting to mongodb: %w", lastErr)
}

func (s *MongoStore) Insert(ctx context.Context, w Word) (Word, error) {
	doc := wordDoc{
		ID:        primitive.NewObjectID(),
		Text:      w.Text,
		Length:    w.Length,
		CreatedBy: w.CreatedBy,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Word{}, apperr.New(apperr.Conflict, "word already exists")
		}
		return Word{}, fmt.Errorf("inserting word: %w", err)
	}
	return doc.word(), nil
}

func (s *MongoStore) Rename(ctx context.Context, id, text string, at time.Time) (Word, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Word{}, apperr.New(apperr.NotFound, "word not found")
	}

	var doc wordDoc
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"text": text, "length": len(text), "updated_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Word{}, apperr.New(apperr.NotFound, "word not found")
	case mongo.IsDuplicateKeyError(err):
		return Word{}, apperr.New(apperr.Conflict, "word already exists")
	case err != nil:
		return Word{}, fmt.Errorf("updating word: %w", err)
	}
	return doc.word(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.NotFound, "word not found")
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting word: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "word not found")
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, length int, prefix string, offset, limit int) ([]Word, int, error) {
	filter := bson.M{"length": length}
	if prefix != "" {
		// prefix is folded to A–Z, so it is safe inside a regex.
		filter["text"] = bson.M{"$regex": "^" + prefix}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting words: %w", err)
	}

	cur, err := s.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "text", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("listing words: %w", err)
	}
	var docs []wordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decoding words: %w", err)
	}

	out := make([]Word, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.word())
	}
	return out, int(total), nil
}

func (s *MongoStore) CountByLength(ctx context.Context) (map[int]int, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$length"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("counting by length: %w", err)
	}
	var groups []struct {
		Length int `bson:"_id"`
		N      int `bson:"n"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decoding counts: %w", err)
	}

	out := make(map[int]int, len(groups))
	for _, g := range groups {
		out[g.Length] = g.N
	}
	return out, nil
}

func (s *MongoStore) Exists(ctx context.Context, text string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"text": text}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("looking up word: %w", err)
	}
	return n > 0, nil
}

func (s *MongoStore) Sample(ctx context.Context, length int) (string, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "length", Value: length}}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	})
	if err != nil {
		return "", fmt.Errorf("sampling word: %w", err)
	}
	var docs []wordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return "", fmt.Errorf("decoding sample: %w", err)
	}
	if len(docs) == 0 {
		return "", apperr.New(apperr.Unavailable, "no target words available")
	}
	return docs[0].Text, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
