package validation

// Границы полей. Это константы правил, а не продуктовые настройки.

type bounds struct {
	MinLength int
	MaxLength int
}

var (
	titleBounds   = bounds{MinLength: 3, MaxLength: 150}
	contentBounds = bounds{MinLength: 10, MaxLength: 2200}

	usernameBounds = bounds{MinLength: 3, MaxLength: 150}
	emailBounds    = bounds{MinLength: 3, MaxLength: 255}
	passwordBounds = bounds{MinLength: 7, MaxLength: 128}
)
