// Package store абстрагирует коллекцию документов (find/insert/update/delete по фильтру),
// чтобы записи можно было тестировать без живой базы данных.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNoDocuments — документ по фильтру не найден.
	ErrNoDocuments = errors.New("store: no documents in result")
	// ErrDuplicateKey — нарушен уникальный индекс.
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// Collection — контракт хранилища документов. Реализации: MongoCollection
// и MemoryCollection (для тестов).
type Collection interface {
	// FindOne декодирует первый документ по фильтру в out; ErrNoDocuments, если его нет.
	FindOne(ctx context.Context, filter bson.M, out any) error
	// Find декодирует документы по фильтру в out (указатель на срез).
	// skip/limit задают страницу; limit == 0 означает без ограничения.
	Find(ctx context.Context, filter bson.M, out any, skip, limit int64) error
	// InsertOne сохраняет документ и возвращает hex его идентификатора.
	InsertOne(ctx context.Context, doc any) (string, error)
	// UpdateOne применяет update к первому документу по фильтру.
	UpdateOne(ctx context.Context, filter, update bson.M) (matched, modified int64, err error)
	// FindOneAndUpdate атомарно применяет update к первому документу по фильтру
	// и декодирует результат после обновления в out; ErrNoDocuments, если его нет.
	FindOneAndUpdate(ctx context.Context, filter, update bson.M, out any) error
	// DeleteOne удаляет первый документ по фильтру и возвращает число удалённых.
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	// Count возвращает число документов по фильтру.
	Count(ctx context.Context, filter bson.M) (int64, error)
}

// MongoCollection — адаптер Collection поверх официального драйвера.
type MongoCollection struct {
	col *mongo.Collection
}

func NewMongoCollection(col *mongo.Collection) *MongoCollection {
	return &MongoCollection{col: col}
}

func (m *MongoCollection) FindOne(ctx context.Context, filter bson.M, out any) error {
	err := m.col.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocuments
	}
	return err
}

func (m *MongoCollection) Find(ctx context.Context, filter bson.M, out any, skip, limit int64) error {
	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *MongoCollection) InsertOne(ctx context.Context, doc any) (string, error) {
	result, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return "", err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(result.InsertedID), nil
}

func (m *MongoCollection) UpdateOne(ctx context.Context, filter, update bson.M) (int64, int64, error) {
	result, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, 0, err
	}
	return result.MatchedCount, result.ModifiedCount, nil
}

func (m *MongoCollection) FindOneAndUpdate(ctx context.Context, filter, update bson.M, out any) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocuments
	}
	return err
}

func (m *MongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	result, err := m.col.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (m *MongoCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	return m.col.CountDocuments(ctx, filter)
}
