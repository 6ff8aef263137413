// Package records реализует слой валидации и персистентности: записи постов
// и пользователей поверх абстракции коллекции документов.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
	"blogapi/internal/store"
	"blogapi/internal/validation"
)

// PostDefaults — продуктовые значения по умолчанию для новых постов.
type PostDefaults struct {
	Tag      string
	Image    string
	PageSize int
}

type PostRecords struct {
	col      store.Collection
	defaults PostDefaults
}

func NewPostRecords(col store.Collection, defaults PostDefaults) *PostRecords {
	if defaults.PageSize <= 0 {
		defaults.PageSize = 12
	}
	return &PostRecords{col: col, defaults: defaults}
}

// New валидирует кандидата и заполняет значения по умолчанию.
// Документы, загруженные из хранилища, через New не прогоняются.
func (r *PostRecords) New(input models.Post) (*models.Post, error) {
	if err := validation.Title(input.Title); err != nil {
		return nil, err
	}
	if err := validation.Content(input.Content); err != nil {
		return nil, err
	}
	if input.LikesCounter < 0 {
		return nil, apperr.New(apperr.Validation, "likesCounter", "likes counter cannot be negative")
	}

	post := input
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Image == "" {
		post.Image = r.defaults.Image
	}
	if len(post.Tags) == 0 {
		post.Tags = []string{r.defaults.Tag}
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = now
	}
	return &post, nil
}

// Insert сохраняет новый пост и возвращает hex его идентификатора.
func (r *PostRecords) Insert(ctx context.Context, input models.Post) (string, error) {
	post, err := r.New(input)
	if err != nil {
		return "", err
	}
	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return "", apperr.Wrap(apperr.Store, "", "cannot insert post, try again later", err)
	}
	return post.ID.Hex(), nil
}

// GetOne возвращает nil без ошибки, если пост не найден; некорректный
// идентификатор — отдельная ошибка, отличимая от «не найдено».
func (r *PostRecords) GetOne(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var post models.Post
	err = r.col.FindOne(ctx, bson.M{"_id": oid}, &post)
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "", "error while fetching the post", err)
	}
	return &post, nil
}

// List возвращает все посты; пустой срез, если постов нет.
func (r *PostRecords) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.col.Find(ctx, bson.M{}, &posts, 0, 0); err != nil {
		return nil, apperr.Wrap(apperr.Store, "", "error while fetching posts", err)
	}
	return posts, nil
}

// ListPage возвращает страницу постов (нумерация с единицы) и общее число страниц.
func (r *PostRecords) ListPage(ctx context.Context, page, pageSize int) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = r.defaults.PageSize
	}

	total, err := r.col.Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Store, "", "error while counting posts", err)
	}
	pageCount := int((total + int64(pageSize) - 1) / int64(pageSize))

	posts := []models.Post{}
	skip := int64(page-1) * int64(pageSize)
	if err := r.col.Find(ctx, bson.M{}, &posts, skip, int64(pageSize)); err != nil {
		return nil, 0, apperr.Wrap(apperr.Store, "", "error while fetching posts", err)
	}
	return posts, pageCount, nil
}

// Delete сообщает, был ли удалён ровно один документ; «не найдено» — не ошибка.
func (r *PostRecords) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	deleted, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, apperr.Wrap(apperr.Store, "", "cannot delete this post, try again later", err)
	}
	return deleted == 1, nil
}

func (r *PostRecords) UpdateTitle(ctx context.Context, id, title string) error {
	if err := validation.Title(title); err != nil {
		return err
	}
	return r.setField(ctx, id, "title", title)
}

func (r *PostRecords) UpdateContent(ctx context.Context, id, content string) error {
	if err := validation.Content(content); err != nil {
		return err
	}
	return r.setField(ctx, id, "content", content)
}

func (r *PostRecords) UpdateImage(ctx context.Context, id, url string) error {
	if err := validation.ImageURL(url); err != nil {
		return err
	}
	return r.setField(ctx, id, "image", url)
}

func (r *PostRecords) setField(ctx context.Context, id, field, value string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	matched, _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{field: value, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Store, field, "cannot update post, try again later", err)
	}
	if matched == 0 {
		return apperr.New(apperr.NotFound, "id", fmt.Sprintf("post with id %s does not exist", id))
	}
	return nil
}

// IncrementLikes атомарно увеличивает счётчик на стороне хранилища
// и возвращает значение из обновлённого документа: отдельного чтения нет,
// поэтому конкурентные запросы не перепутают результаты.
func (r *PostRecords) IncrementLikes(ctx context.Context, id string) (int, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	var post models.Post
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$inc": bson.M{"likesCounter": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}, &post)
	if errors.Is(err, store.ErrNoDocuments) {
		return 0, apperr.New(apperr.NotFound, "id", fmt.Sprintf("post with id %s does not exist", id))
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.Store, "likesCounter", "cannot update likes, try again later", err)
	}
	return post.LikesCounter, nil
}

// DecrementLikes уменьшает счётчик только при likesCounter > 0: фильтр
// не даёт счётчику уйти в минус даже при конкурентных запросах.
func (r *PostRecords) DecrementLikes(ctx context.Context, id string) (int, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	var post models.Post
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "likesCounter": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"likesCounter": -1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		}, &post)
	if errors.Is(err, store.ErrNoDocuments) {
		// Либо поста нет, либо счётчик уже на нуле
		existing, err := r.GetOne(ctx, id)
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return 0, apperr.New(apperr.NotFound, "id", fmt.Sprintf("post with id %s does not exist", id))
		}
		return 0, apperr.New(apperr.Validation, "likesCounter", "likes counter cannot go below zero")
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.Store, "likesCounter", "cannot update likes, try again later", err)
	}
	return post.LikesCounter, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Wrap(apperr.InvalidID, "id",
			fmt.Sprintf("malformed identifier %q", id), err)
	}
	return oid, nil
}
