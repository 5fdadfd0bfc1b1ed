package catalog

import (
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/utils/validate"
)

// Поля формы розыгрыша
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldPrize        = "prize"
	FieldPrizeImage   = "prizeImage"
	FieldPrice        = "price"
	FieldCurrency     = "currency"
	FieldTotalNumbers = "totalNumbers"
	FieldMaxPerUser   = "maxPerUser"
	FieldStatus       = "status"
	FieldDrawDate     = "drawDate"
)

// Currencies валюты, которые можно выбрать для розыгрыша
var Currencies = []string{"MXN", "USD", "EUR", "ARS", "COP", "CLP", "PEN"}

var statuses = []domain.RaffleStatus{
	domain.RaffleStatusDraft,
	domain.RaffleStatusActive,
	domain.RaffleStatusCompleted,
	domain.RaffleStatusCancelled,
}

// Форматы даты розыгрыша: ISO от API и значение поля datetime-local
var drawDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// RaffleForm форма розыгрыша из админки.
// Числа указателями: отсутствующее поле отличается от нуля.
type RaffleForm struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Prize        string   `json:"prize"`
	PrizeImage   string   `json:"prizeImage"`
	Price        *float64 `json:"price"`
	Currency     string   `json:"currency"`
	TotalNumbers *float64 `json:"totalNumbers"`
	MaxPerUser   *float64 `json:"maxPerUser"`
	Status       string   `json:"status"`
	DrawDate     string   `json:"drawDate"`
}

// Validate проверяет форму. totalNumbers проверяется только при создании,
// при изменении поле игнорируется. Для каждого поля возвращается первое
// нарушенное правило.
func Validate(form RaffleForm, creating bool) domain.FieldErrors {
	errs := domain.FieldErrors{}

	nameLen := utf8.RuneCountInString(form.Name)
	switch {
	case nameLen == 0:
		errs[FieldName] = "El nombre es requerido"
	case nameLen < 3:
		errs[FieldName] = "El nombre debe tener al menos 3 caracteres"
	case nameLen > 100:
		errs[FieldName] = "El nombre no puede exceder 100 caracteres"
	}

	if utf8.RuneCountInString(form.Description) > 500 {
		errs[FieldDescription] = "La descripcion no puede exceder 500 caracteres"
	}

	prizeLen := utf8.RuneCountInString(form.Prize)
	switch {
	case prizeLen == 0:
		errs[FieldPrize] = "El premio es requerido"
	case prizeLen < 3:
		errs[FieldPrize] = "El premio debe tener al menos 3 caracteres"
	case prizeLen > 200:
		errs[FieldPrize] = "El premio no puede exceder 200 caracteres"
	}

	if form.PrizeImage != "" && !validate.URL(form.PrizeImage) {
		errs[FieldPrizeImage] = "Ingresa una URL valida"
	}

	switch {
	case form.Price == nil:
		errs[FieldPrice] = "El precio debe ser un numero"
	case *form.Price < 1:
		errs[FieldPrice] = "El precio minimo es $1"
	case *form.Price > 100000:
		errs[FieldPrice] = "El precio maximo es $100,000"
	}

	if !slices.Contains(Currencies, form.Currency) {
		errs[FieldCurrency] = "Selecciona una moneda valida"
	}

	if creating {
		if msg := checkInt(form.TotalNumbers, 10, 1000, "Minimo 10 numeros", "Maximo 1000 numeros"); msg != "" {
			errs[FieldTotalNumbers] = msg
		}
	}

	if msg := checkInt(form.MaxPerUser, 1, 100, "Minimo 1 numero por usuario", "Maximo 100 numeros por usuario"); msg != "" {
		errs[FieldMaxPerUser] = msg
	}

	if !slices.Contains(statuses, domain.RaffleStatus(form.Status)) {
		errs[FieldStatus] = "Selecciona un estado valido"
	}

	if form.DrawDate != "" {
		if _, ok := parseDrawDate(form.DrawDate); !ok {
			errs[FieldDrawDate] = "Ingresa una fecha valida"
		}
	}

	return errs
}

func checkInt(v *float64, lo, hi float64, tooLow, tooHigh string) string {
	switch {
	case v == nil:
		return "Debe ser un numero"
	case *v != math.Trunc(*v):
		return "Debe ser un numero entero"
	case *v < lo:
		return tooLow
	case *v > hi:
		return tooHigh
	}
	return ""
}

func parseDrawDate(s string) (time.Time, bool) {
	for _, layout := range drawDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Input переводит проверенную форму в тело запроса API.
// Пустая дата уходит как null.
func (f RaffleForm) Input(creating bool) domain.RaffleInput {
	in := domain.RaffleInput{
		Name:        f.Name,
		Description: f.Description,
		Prize:       f.Prize,
		PrizeImage:  f.PrizeImage,
		Currency:    f.Currency,
		Status:      domain.RaffleStatus(f.Status),
	}
	if f.Price != nil {
		in.Price = *f.Price
	}
	if f.MaxPerUser != nil {
		in.MaxPerUser = int(*f.MaxPerUser)
	}
	if creating && f.TotalNumbers != nil {
		total := int(*f.TotalNumbers)
		in.TotalNumbers = &total
	}
	if t, ok := parseDrawDate(f.DrawDate); ok {
		in.DrawDate = &t
	}
	return in
}
