package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
	"blogapi/internal/store"
	"blogapi/internal/validation"
)

type UserRecords struct {
	col store.Collection
}

func NewUserRecords(col store.Collection) *UserRecords {
	return &UserRecords{col: col}
}

// Insert валидирует поля, хеширует пароль и сохраняет пользователя.
// Проверка уникальности перед вставкой — быстрый путь для понятной ошибки;
// настоящая гарантия — уникальный индекс хранилища.
func (r *UserRecords) Insert(ctx context.Context, input models.User) (string, error) {
	if err := validation.Username(input.Username); err != nil {
		return "", err
	}
	if err := validation.Email(input.Email); err != nil {
		return "", err
	}
	if err := validation.Password(input.Password); err != nil {
		return "", err
	}

	existing, err := r.GetByUsername(ctx, input.Username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.New(apperr.Duplicate, "username", "this username is already taken")
	}
	existing, err = r.GetByEmail(ctx, input.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.New(apperr.Duplicate, "email", "this email is already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "password", "cannot hash password", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		IsAdmin:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !input.ID.IsZero() {
		user.ID = input.ID
	}

	id, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return "", apperr.Wrap(apperr.Duplicate, "username", "username or email is already taken", err)
		}
		return "", apperr.Wrap(apperr.Store, "", "cannot insert user, try again later", err)
	}
	return id, nil
}

// GetByID возвращает nil без ошибки, если пользователя нет.
func (r *UserRecords) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRecords) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRecords) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRecords) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, filter, &user)
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "", "error while fetching the user", err)
	}
	return &user, nil
}

// ListAll возвращает всех пользователей; пустой срез, если их нет.
func (r *UserRecords) ListAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.col.Find(ctx, bson.M{}, &users, 0, 0); err != nil {
		return nil, apperr.Wrap(apperr.Store, "", "cannot find users", err)
	}
	return users, nil
}

func (r *UserRecords) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	deleted, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, apperr.Wrap(apperr.Store, "", "cannot delete user, try again later", err)
	}
	return deleted == 1, nil
}

// DeleteAll удаляет пользователей по одному; не атомарно — сбой на середине
// оставляет частичное удаление без отката.
func (r *UserRecords) DeleteAll(ctx context.Context) error {
	users, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if _, err := r.DeleteByID(ctx, user.ID.Hex()); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePassword валидирует и хеширует новый пароль, затем сохраняет его.
func (r *UserRecords) UpdatePassword(ctx context.Context, id, newPassword string) error {
	if err := validation.Password(newPassword); err != nil {
		return err
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Store, "password", "cannot hash password", err)
	}
	matched, _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"password": string(hashed), "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Store, "password", "cannot update user password", err)
	}
	if matched == 0 {
		return apperr.New(apperr.NotFound, "id", fmt.Sprintf("user with id %s does not exist", id))
	}
	return nil
}

// ToggleAdmin переключает флаг администратора и возвращает новое значение.
// Фильтр по прочитанному значению флага не даёт двум конкурентным запросам
// перезаписать одно и то же переключение; при промахе читаем заново.
func (r *UserRecords) ToggleAdmin(ctx context.Context, id string) (bool, error) {
	for {
		user, err := r.GetByID(ctx, id)
		if err != nil {
			return false, err
		}
		if user == nil {
			return false, apperr.New(apperr.NotFound, "id", fmt.Sprintf("user with id %s does not exist", id))
		}

		var updated models.User
		err = r.col.FindOneAndUpdate(ctx,
			bson.M{"_id": user.ID, "isAdmin": user.IsAdmin},
			bson.M{"$set": bson.M{"isAdmin": !user.IsAdmin, "updatedAt": time.Now().UTC()}},
			&updated)
		if errors.Is(err, store.ErrNoDocuments) {
			// Флаг успели переключить между чтением и обновлением
			continue
		}
		if err != nil {
			return false, apperr.Wrap(apperr.Store, "isAdmin", "cannot update admin status", err)
		}
		return updated.IsAdmin, nil
	}
}

// Login сравнивает пароль с хешем. Неизвестное имя и неверный пароль
// одинаково возвращают nil: по ответу нельзя понять, что именно не совпало.
func (r *UserRecords) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}
