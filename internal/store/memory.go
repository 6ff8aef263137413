package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection — Collection в памяти для тестов. Поддерживает ровно то,
// что используют записи: фильтры по точному совпадению, числовой $gt,
// обновления $set/$inc и уникальные поля как аналог уникальных индексов.
type MemoryCollection struct {
	mu     sync.Mutex
	docs   []bson.M
	unique []string
}

// NewMemoryCollection создаёт пустую коллекцию; unique перечисляет поля,
// уникальность которых обеспечивается на вставке.
func NewMemoryCollection(unique ...string) *MemoryCollection {
	return &MemoryCollection{unique: unique}
}

func (m *MemoryCollection) FindOne(_ context.Context, filter bson.M, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if matches(doc, filter) {
			return decodeDoc(doc, out)
		}
	}
	return ErrNoDocuments
}

func (m *MemoryCollection) Find(_ context.Context, filter bson.M, out any, skip, limit int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []bson.M
	for _, doc := range m.docs {
		if matches(doc, filter) {
			found = append(found, doc)
		}
	}
	if skip > 0 {
		if skip >= int64(len(found)) {
			found = nil
		} else {
			found = found[skip:]
		}
	}
	if limit > 0 && limit < int64(len(found)) {
		found = found[:limit]
	}
	return decodeDocs(found, out)
}

func (m *MemoryCollection) InsertOne(_ context.Context, doc any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", err
	}
	var stored bson.M
	if err := bson.Unmarshal(raw, &stored); err != nil {
		return "", err
	}

	id, ok := stored["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		stored["_id"] = id
	}

	for _, field := range m.unique {
		value, ok := stored[field]
		if !ok {
			continue
		}
		for _, existing := range m.docs {
			if equal(existing[field], value) {
				return "", fmt.Errorf("%w: %s", ErrDuplicateKey, field)
			}
		}
	}

	m.docs = append(m.docs, stored)
	return id.Hex(), nil
}

func (m *MemoryCollection) UpdateOne(_ context.Context, filter, update bson.M) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if !matches(doc, filter) {
			continue
		}
		modified := applyUpdate(doc, update)
		if modified {
			return 1, 1, nil
		}
		return 1, 0, nil
	}
	return 0, 0, nil
}

func (m *MemoryCollection) FindOneAndUpdate(_ context.Context, filter, update bson.M, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if matches(doc, filter) {
			applyUpdate(doc, update)
			return decodeDoc(doc, out)
		}
	}
	return ErrNoDocuments
}

func (m *MemoryCollection) DeleteOne(_ context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, doc := range m.docs {
		if matches(doc, filter) {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemoryCollection) Count(_ context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, doc := range m.docs {
		if matches(doc, filter) {
			count++
		}
	}
	return count, nil
}

func matches(doc, filter bson.M) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if ops, isOp := want.(bson.M); isOp {
			for op, operand := range ops {
				switch op {
				case "$gt":
					a, aok := asFloat(got)
					b, bok := asFloat(operand)
					if !aok || !bok || !(a > b) {
						return false
					}
				default:
					return false
				}
			}
			continue
		}
		if !equal(got, want) {
			return false
		}
	}
	return true
}

func applyUpdate(doc, update bson.M) bool {
	modified := false
	if set, ok := update["$set"].(bson.M); ok {
		for field, value := range set {
			if !equal(doc[field], value) {
				modified = true
			}
			doc[field] = normalize(value)
		}
	}
	if inc, ok := update["$inc"].(bson.M); ok {
		for field, delta := range inc {
			current, _ := asFloat(doc[field])
			d, _ := asFloat(delta)
			doc[field] = int64(current + d)
			modified = true
		}
	}
	return modified
}

func equal(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize прогоняет значение через bson, чтобы сравнивать то же представление,
// в котором хранятся документы (time.Time -> primitive.DateTime и т.п.).
func normalize(v any) any {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return v
	}
	return m["v"]
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func decodeDoc(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func decodeDocs(docs []bson.M, out any) error {
	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Ptr || outValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("store: out must be a pointer to a slice")
	}
	slice := outValue.Elem()
	slice.SetLen(0)
	elemType := slice.Type().Elem()
	for _, doc := range docs {
		elem := reflect.New(elemType)
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	outValue.Elem().Set(slice)
	return nil
}
