package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Доменные ошибки. Адаптеры оборачивают их через %w,
// границы приложения проверяют через errors.Is / errors.As.
var (
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrInvalidFilename   = errors.New("invalid filename")
)

// ValidationError - структурированный отчет о невалидном входе.
// Fields: имя поля -> список сообщений об ошибках этого поля.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

// NewValidationError создает ошибку валидации с общим сообщением.
func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{
		Message: "validation failed",
		Fields:  fields,
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(names, ", "))
}
