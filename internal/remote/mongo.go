package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pantrypal/internal/errors"
)

// Store implements Client over a MongoDB database. Each logical
// collection (pantryItems, favorites, mealPlans, users) maps to one
// Mongo collection; the users/{uid} subcollection scoping becomes a
// userId filter on every operation.
type Store struct {
	db *mongo.Database
}

// Dial prepares a remote store handle. The driver connects lazily, so
// an unreachable server is not an error here; individual operations
// report ErrRemoteUnavailable instead. Only a malformed URI fails.
func Dial(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Remote("connect", err)
	}
	return &Store{db: client.Database(database)}, nil
}

// NewStore wraps an already connected database handle.
func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Close tears down the underlying client connection.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

var _ Client = (*Store)(nil)

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func docFilter(p Path) bson.M {
	if p.Collection == usersCollection {
		return bson.M{"_id": p.UserID}
	}
	return bson.M{"_id": p.DocID, "userId": p.UserID}
}

func collFilter(c CollectionPath) bson.M {
	if c.Collection == usersCollection {
		return bson.M{"_id": c.UserID}
	}
	return bson.M{"userId": c.UserID}
}

// Create inserts a new document with a generated identifier and returns it.
func (s *Store) Create(ctx context.Context, coll CollectionPath, doc bson.M) (string, error) {
	id := uuid.NewString()
	doc["_id"] = id
	if coll.Collection != usersCollection {
		doc["userId"] = coll.UserID
	}
	if _, err := s.collection(coll.Collection).InsertOne(ctx, doc); err != nil {
		return "", errors.Remote(fmt.Sprintf("create %s", coll), err)
	}
	return id, nil
}

// Set fully replaces the document at path, creating it when absent.
func (s *Store) Set(ctx context.Context, path Path, doc bson.M) error {
	if path.DocID == "" {
		return errors.ErrIDRequired
	}
	doc["_id"] = path.DocID
	if path.Collection != usersCollection {
		doc["userId"] = path.UserID
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection(path.Collection).ReplaceOne(ctx, docFilter(path), doc, opts); err != nil {
		return errors.Remote(fmt.Sprintf("set %s", path), err)
	}
	return nil
}

// Update applies a partial field update to an existing document.
func (s *Store) Update(ctx context.Context, path Path, fields bson.M) error {
	if path.DocID == "" {
		return errors.ErrIDRequired
	}
	res, err := s.collection(path.Collection).UpdateOne(ctx, docFilter(path), bson.M{"$set": fields})
	if err != nil {
		return errors.Remote(fmt.Sprintf("update %s", path), err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrDocumentNotFound
	}
	return nil
}

// Delete removes the document at path. Deleting an absent document is a
// no-op.
func (s *Store) Delete(ctx context.Context, path Path) error {
	if path.DocID == "" {
		return errors.ErrIDRequired
	}
	if _, err := s.collection(path.Collection).DeleteOne(ctx, docFilter(path)); err != nil {
		return errors.Remote(fmt.Sprintf("delete %s", path), err)
	}
	return nil
}

// Get fetches the document at path.
func (s *Store) Get(ctx context.Context, path Path) (bson.M, error) {
	var doc bson.M
	err := s.collection(path.Collection).FindOne(ctx, docFilter(path)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Remote(fmt.Sprintf("get %s", path), err)
	}
	return doc, nil
}

// Query lists documents of a user-scoped collection with optional extra
// filters, ordering and limit.
func (s *Store) Query(ctx context.Context, coll CollectionPath, filters bson.M, orderBy string, descending bool, limit int64) ([]bson.M, error) {
	filter := collFilter(coll)
	for k, v := range filters {
		filter[k] = v
	}
	opts := options.Find()
	if orderBy != "" {
		dir := 1
		if descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: orderBy, Value: dir}})
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.collection(coll.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Remote(fmt.Sprintf("query %s", coll), err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Remote(fmt.Sprintf("query %s", coll), err)
	}
	return docs, nil
}

type mongoSubscription struct {
	events chan ChangeEvent

	mu  sync.Mutex
	err error
}

func (s *mongoSubscription) Events() <-chan ChangeEvent {
	return s.events
}

func (s *mongoSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *mongoSubscription) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Subscribe opens a change feed on a user-scoped collection: the current
// contents are delivered first as Added events, then live changes via a
// change stream until ctx is cancelled.
//
// Delete notifications carry no full document, so owner filtering cannot
// be applied to them server-side; they pass through and the local delete
// path, which is owner-scoped, discards foreign ones.
func (s *Store) Subscribe(ctx context.Context, coll CollectionPath) (Subscription, error) {
	var match bson.M
	if coll.Collection == usersCollection {
		match = bson.M{"documentKey._id": coll.UserID}
	} else {
		match = bson.M{"$or": []bson.M{
			{"fullDocument.userId": coll.UserID},
			{"operationType": "delete"},
		}}
	}
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: match}}}
	csOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	// The stream is opened before the snapshot so nothing written in
	// between is missed; such writes show up twice, which reconciliation
	// absorbs.
	cs, err := s.collection(coll.Collection).Watch(ctx, pipeline, csOpts)
	if err != nil {
		return nil, errors.Remote(fmt.Sprintf("subscribe %s", coll), err)
	}

	sub := &mongoSubscription{events: make(chan ChangeEvent, 16)}

	go func() {
		defer close(sub.events)
		defer cs.Close(context.Background())

		snapshot, err := s.Query(ctx, coll, nil, "", false, 0)
		if err != nil {
			sub.fail(err)
			return
		}
		for _, doc := range snapshot {
			ev := ChangeEvent{Type: Added, Path: docPath(coll, doc), Doc: doc}
			select {
			case sub.events <- ev:
			case <-ctx.Done():
				return
			}
		}

		for cs.Next(ctx) {
			var change struct {
				OperationType string `bson:"operationType"`
				FullDocument  bson.M `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := cs.Decode(&change); err != nil {
				continue
			}

			var ev ChangeEvent
			switch change.OperationType {
			case "insert":
				ev = ChangeEvent{Type: Added, Path: docPath(coll, change.FullDocument), Doc: change.FullDocument}
			case "update", "replace":
				ev = ChangeEvent{Type: Modified, Path: docPath(coll, change.FullDocument), Doc: change.FullDocument}
			case "delete":
				ev = ChangeEvent{Type: Removed, Path: Doc(coll.UserID, coll.Collection, change.DocumentKey.ID)}
			default:
				continue
			}
			select {
			case sub.events <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			sub.fail(errors.Remote(fmt.Sprintf("change stream %s", coll), err))
		}
	}()

	return sub, nil
}

func docPath(coll CollectionPath, doc bson.M) Path {
	id, _ := doc["_id"].(string)
	if coll.Collection == usersCollection {
		return UserDoc(coll.UserID)
	}
	return Doc(coll.UserID, coll.Collection, id)
}
