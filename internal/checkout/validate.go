package checkout

import (
	"regexp"
	"unicode/utf8"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/utils/validate"
)

// Поля формы покупателя
const (
	FieldName  = "buyerName"
	FieldEmail = "buyerEmail"
	FieldPhone = "buyerPhone"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9\s\-\+\(\)]+$`)
)

// BuyerInfo контактные данные покупателя
type BuyerInfo struct {
	Name  string `json:"buyerName"`
	Email string `json:"buyerEmail"`
	Phone string `json:"buyerPhone"`
}

// Validate проверяет форму покупателя. Для каждого поля возвращается
// первое нарушенное правило.
func Validate(info BuyerInfo) domain.FieldErrors {
	errs := domain.FieldErrors{}

	nameLen := utf8.RuneCountInString(info.Name)
	switch {
	case nameLen == 0:
		errs[FieldName] = "El nombre es requerido"
	case nameLen < 2:
		errs[FieldName] = "El nombre debe tener al menos 2 caracteres"
	case nameLen > 100:
		errs[FieldName] = "El nombre no puede exceder 100 caracteres"
	case !namePattern.MatchString(info.Name):
		errs[FieldName] = "El nombre solo puede contener letras"
	}

	switch {
	case info.Email == "":
		errs[FieldEmail] = "El email es requerido"
	case !validate.Email(info.Email):
		errs[FieldEmail] = "Ingresa un email valido"
	}

	phoneLen := utf8.RuneCountInString(info.Phone)
	switch {
	case phoneLen == 0:
		errs[FieldPhone] = "El telefono es requerido"
	case phoneLen < 10:
		errs[FieldPhone] = "El telefono debe tener al menos 10 digitos"
	case !phonePattern.MatchString(info.Phone):
		errs[FieldPhone] = "Ingresa un telefono valido"
	}

	return errs
}

// Prefill заполняет форму данными авторизованного пользователя
func Prefill(user *domain.AuthUser) BuyerInfo {
	if user == nil {
		return BuyerInfo{}
	}

	info := BuyerInfo{
		Name:  user.Name,
		Email: user.Email,
	}
	if user.Phone != nil {
		info.Phone = *user.Phone
	}
	return info
}
