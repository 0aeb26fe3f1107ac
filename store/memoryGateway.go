package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryGateway is an in-process Gateway used by tests and local runs that
// have no MongoDB at hand. Documents are kept as marshalled BSON so decoding
// behaves the same as with the Mongo implementation.
type MemoryGateway struct {
	mu   sync.Mutex
	cols map[string]map[string]bson.Raw
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{cols: make(map[string]map[string]bson.Raw)}
}

func (g *MemoryGateway) Collection(name string) Collection {
	return &memoryCollection{g: g, name: name}
}

type memoryCollection struct {
	g    *MemoryGateway
	name string
}

func (c *memoryCollection) Get(ctx context.Context, id string) (Doc, error) {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()

	raw, ok := c.g.cols[c.name][id]
	if !ok {
		return Doc{}, ErrNoDocument
	}
	return Doc{ID: id, raw: raw}, nil
}

func (c *memoryCollection) Set(ctx context.Context, id string, data interface{}) error {
	raw, err := bson.Marshal(data)
	if err != nil {
		return err
	}

	c.g.mu.Lock()
	defer c.g.mu.Unlock()

	if c.g.cols[c.name] == nil {
		c.g.cols[c.name] = make(map[string]bson.Raw)
	}
	c.g.cols[c.name][id] = raw
	return nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()

	raw, ok := c.g.cols[c.name][id]
	if !ok {
		return ErrNoDocument
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	updated, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	c.g.cols[c.name][id] = updated
	return nil
}

func (c *memoryCollection) Stream(ctx context.Context) ([]Doc, error) {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()

	var docs []Doc
	for id, raw := range c.g.cols[c.name] {
		docs = append(docs, Doc{ID: id, raw: raw})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (c *memoryCollection) Sub(id, name string) Collection {
	return &memoryCollection{g: c.g, name: c.name + "/" + id + "/" + name}
}

func (c *memoryCollection) Increment(ctx context.Context, id, field string, delta int64) (int64, error) {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()

	doc := bson.M{}
	if raw, ok := c.g.cols[c.name][id]; ok {
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return 0, err
		}
	}
	current, _ := asInt64(doc[field])
	current += delta
	doc[field] = current

	raw, err := bson.Marshal(doc)
	if err != nil {
		return 0, err
	}
	if c.g.cols[c.name] == nil {
		c.g.cols[c.name] = make(map[string]bson.Raw)
	}
	c.g.cols[c.name][id] = raw
	return current, nil
}
