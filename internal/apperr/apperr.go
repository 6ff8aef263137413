package apperr

import (
	"errors"
	"fmt"
)

// Kind определяет категорию ошибки для маппинга на HTTP-статус.
type Kind int

const (
	// Validation — некорректное значение поля, исправимо вызывающей стороной.
	Validation Kind = iota
	// Duplicate — нарушение уникальности (username, email).
	Duplicate
	// InvalidID — идентификатор не соответствует формату хранилища.
	InvalidID
	// NotFound — документ не найден там, где его наличие обязательно.
	NotFound
	// Store — ошибка самого хранилища.
	Store
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Duplicate:
		return "duplicate"
	case InvalidID:
		return "invalid_id"
	case NotFound:
		return "not_found"
	case Store:
		return "store"
	}
	return "unknown"
}

// Error — тегированная ошибка {kind, field, cause}: вызывающая сторона
// различает «не найдено», ошибку валидации и сбой хранилища.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создаёт ошибку без причины.
func New(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// Wrap сохраняет исходную ошибку как причину.
func Wrap(kind Kind, field, message string, err error) *Error {
	return &Error{Kind: kind, Field: field, Message: message, Err: err}
}

// KindOf возвращает категорию ошибки; для посторонних ошибок — Store.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Store
}

// FieldOf возвращает имя поля, к которому относится ошибка.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// IsKind проверяет категорию ошибки.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
