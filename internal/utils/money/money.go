package money

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency валюта по умолчанию
const DefaultCurrency = "MXN"

// currencyLocales локаль форматирования для поддерживаемых валют
var currencyLocales = map[string]language.Tag{
	"MXN": language.MustParse("es-MX"),
	"USD": language.AmericanEnglish,
	"EUR": language.MustParse("es-ES"),
	"ARS": language.MustParse("es-AR"),
	"COP": language.MustParse("es-CO"),
	"CLP": language.MustParse("es-CL"),
	"PEN": language.MustParse("es-PE"),
}

// Format форматирует сумму в валюте code с символом валюты.
// Неизвестная валюта форматируется как MXN.
func Format(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.MXN
		code = DefaultCurrency
	}

	tag, ok := currencyLocales[code]
	if !ok {
		tag = currencyLocales[DefaultCurrency]
	}

	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}

// Total возвращает итоговую сумму за count номеров по цене price
func Total(count int, price float64) float64 {
	return float64(count) * price
}
