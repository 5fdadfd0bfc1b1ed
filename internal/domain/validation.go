package domain

import (
	"sort"
	"strings"
)

// FieldErrors ошибки валидации формы: поле -> сообщение для пользователя
type FieldErrors map[string]string

// Error реализует интерфейс error
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Empty сообщает, что ошибок нет
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}
