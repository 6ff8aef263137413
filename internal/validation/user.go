package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"blogapi/internal/apperr"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)
	emailRegex    = regexp.MustCompile(`^[\w\-]+(\.[\w\-]+)*@([\w\-]+\.)+[\w\-]+$`)

	passwordLetterRegex  = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigitRegex   = regexp.MustCompile(`[0-9]`)
	passwordSpecialRegex = regexp.MustCompile(`[!@#$%^&*()<>?{}\[\]_+|~\-]`)
)

// Правила проверяются по порядку, ошибка первого нарушенного правила и возвращается.

func Username(username string) error {
	if username == "" {
		return apperr.New(apperr.Validation, "username", "username cannot be empty")
	}
	if utf8.RuneCountInString(username) < usernameBounds.MinLength || utf8.RuneCountInString(username) > usernameBounds.MaxLength {
		return apperr.New(apperr.Validation, "username",
			fmt.Sprintf("username must be between %d and %d characters long", usernameBounds.MinLength, usernameBounds.MaxLength))
	}
	if !usernameRegex.MatchString(username) {
		return apperr.New(apperr.Validation, "username",
			"username may contain only letters, digits, underscore, period and hyphen")
	}
	return nil
}

func Email(email string) error {
	if email == "" {
		return apperr.New(apperr.Validation, "email", "email cannot be empty")
	}
	if utf8.RuneCountInString(email) < emailBounds.MinLength || utf8.RuneCountInString(email) > emailBounds.MaxLength {
		return apperr.New(apperr.Validation, "email",
			fmt.Sprintf("email must be between %d and %d characters long", emailBounds.MinLength, emailBounds.MaxLength))
	}
	if !emailRegex.MatchString(email) {
		return apperr.New(apperr.Validation, "email", "invalid email format")
	}
	return nil
}

func Password(password string) error {
	if password == "" {
		return apperr.New(apperr.Validation, "password", "password cannot be empty")
	}
	if utf8.RuneCountInString(password) < passwordBounds.MinLength || utf8.RuneCountInString(password) > passwordBounds.MaxLength {
		return apperr.New(apperr.Validation, "password",
			fmt.Sprintf("password must be between %d and %d characters long", passwordBounds.MinLength, passwordBounds.MaxLength))
	}
	if !passwordLetterRegex.MatchString(password) ||
		!passwordDigitRegex.MatchString(password) ||
		!passwordSpecialRegex.MatchString(password) {
		return apperr.New(apperr.Validation, "password",
			"password must contain at least one letter, one digit and one special character")
	}
	return nil
}
