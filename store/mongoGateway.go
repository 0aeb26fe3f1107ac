package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGateway implements Gateway on top of a MongoDB database. Sub-collections
// are flattened into "<parent>_<name>" collections whose documents carry a
// parent_id field and a "<parentID>/<id>" primary key.
type MongoGateway struct {
	db *mongo.Database
}

func NewMongoGateway(db *mongo.Database) *MongoGateway {
	return &MongoGateway{db: db}
}

func (g *MongoGateway) Collection(name string) Collection {
	return &mongoCollection{db: g.db, name: name}
}

type mongoCollection struct {
	db     *mongo.Database
	name   string
	parent string // parent document id, empty for top-level collections
}

func (c *mongoCollection) coll() *mongo.Collection {
	return c.db.Collection(c.name)
}

func (c *mongoCollection) key(id string) string {
	if c.parent == "" {
		return id
	}
	return c.parent + "/" + id
}

func (c *mongoCollection) Get(ctx context.Context, id string) (Doc, error) {
	res := c.coll().FindOne(ctx, bson.M{"_id": c.key(id)})
	raw, err := res.Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Doc{}, ErrNoDocument
	}
	if err != nil {
		return Doc{}, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return Doc{ID: id, raw: raw}, nil
}

func (c *mongoCollection) Set(ctx context.Context, id string, data interface{}) error {
	doc, err := toDocument(data)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", c.name, id, err)
	}
	doc["_id"] = c.key(id)
	if c.parent != "" {
		doc["parent_id"] = c.parent
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := c.coll().ReplaceOne(ctx, bson.M{"_id": c.key(id)}, doc, opts); err != nil {
		return fmt.Errorf("set %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *mongoCollection) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res, err := c.coll().UpdateOne(ctx, bson.M{"_id": c.key(id)}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", c.name, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (c *mongoCollection) Stream(ctx context.Context) ([]Doc, error) {
	filter := bson.M{}
	if c.parent != "" {
		filter["parent_id"] = c.parent
	}
	cursor, err := c.coll().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", c.name, err)
	}
	defer cursor.Close(ctx)

	var docs []Doc
	for cursor.Next(ctx) {
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		id, ok := raw.Lookup("_id").StringValueOK()
		if !ok {
			continue
		}
		if c.parent != "" {
			id = strings.TrimPrefix(id, c.parent+"/")
		}
		docs = append(docs, Doc{ID: id, raw: raw})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("stream %s: %w", c.name, err)
	}
	return docs, nil
}

func (c *mongoCollection) Sub(id, name string) Collection {
	return &mongoCollection{db: c.db, name: c.name + "_" + name, parent: c.key(id)}
}

func (c *mongoCollection) Increment(ctx context.Context, id, field string, delta int64) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	res := c.coll().FindOneAndUpdate(ctx, bson.M{"_id": c.key(id)}, bson.M{"$inc": bson.M{field: delta}}, opts)

	var doc bson.M
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("increment %s/%s: %w", c.name, id, err)
	}
	value, ok := asInt64(doc[field])
	if !ok {
		return 0, fmt.Errorf("increment %s/%s: field %s is not numeric", c.name, id, field)
	}
	return value, nil
}

func toDocument(data interface{}) (bson.M, error) {
	b, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
