package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"blogapi/internal/apperr"
)

// Ссылка на картинку: схема http/https/ftp и расширение файла изображения
var imageURLRegex = regexp.MustCompile(`^(http|https|ftp)://\S+\.(jpg|jpeg|png|gif|bmp)$`)

// Границы длины считаются в символах, а не в байтах: кириллический
// заголовок из 100 символов — валидный заголовок.

func Title(title string) error {
	if title == "" || utf8.RuneCountInString(title) < titleBounds.MinLength || utf8.RuneCountInString(title) > titleBounds.MaxLength {
		return apperr.New(apperr.Validation, "title",
			fmt.Sprintf("title has to be between %d and %d characters long", titleBounds.MinLength, titleBounds.MaxLength))
	}
	return nil
}

func Content(content string) error {
	if content == "" || utf8.RuneCountInString(content) < contentBounds.MinLength || utf8.RuneCountInString(content) > contentBounds.MaxLength {
		return apperr.New(apperr.Validation, "content",
			fmt.Sprintf("content has to be between %d and %d characters long", contentBounds.MinLength, contentBounds.MaxLength))
	}
	return nil
}

func ImageURL(url string) error {
	if url == "" {
		return apperr.New(apperr.Validation, "image", "image URL cannot be empty")
	}
	if !imageURLRegex.MatchString(url) {
		return apperr.New(apperr.Validation, "image",
			"image URL must use http, https or ftp and end with jpg, jpeg, png, gif or bmp")
	}
	return nil
}
