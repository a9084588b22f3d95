package excel

import (
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"

	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

// currency symbols recognized as literals in custom number formats
var currencySymbols = []string{"$", "€", "£", "¥", "￥", "₩", "₹", "₽", "₺", "₪", "₫", "฿", "zł", "kr", "CHF", "R$"}

// ClassifyCell returns the category of a cell from its value type, raw
// value and number format. Non-numeric cell types decide alone; numbers are
// refined by their format.
func ClassifyCell(cellType excelize.CellType, rawValue string, numFmt int, customFmt string) (stylerange.Category, string) {
	switch cellType {
	case excelize.CellTypeBool:
		return stylerange.CategoryLogical, ""
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return stylerange.CategoryText, ""
	case excelize.CellTypeDate:
		return stylerange.CategoryDateTime, ""
	case excelize.CellTypeUnset:
		if rawValue == "" {
			return stylerange.CategoryUndefined, ""
		}
	}
	category, currency := ClassifyNumberFormat(numFmt, customFmt)
	if category == stylerange.CategoryText {
		// a number shown through "@" is still a number
		return stylerange.CategoryNumeric, ""
	}
	return category, currency
}

// ClassifyNumberFormat maps a built-in number format id, or a custom format
// code when set, to a category and currency symbol.
func ClassifyNumberFormat(numFmt int, customFmt string) (stylerange.Category, string) {
	if customFmt != "" {
		return classifyFormatCode(customFmt)
	}
	switch {
	case numFmt == 9 || numFmt == 10:
		return stylerange.CategoryPercent, ""
	case numFmt >= 5 && numFmt <= 8, numFmt == 42, numFmt == 44:
		return stylerange.CategoryCurrency, "$"
	case numFmt >= 14 && numFmt <= 17, numFmt == 22, numFmt >= 27 && numFmt <= 36, numFmt >= 50 && numFmt <= 58:
		return stylerange.CategoryDateTime, ""
	case numFmt >= 18 && numFmt <= 21, numFmt >= 45 && numFmt <= 47:
		return stylerange.CategoryTime, ""
	case numFmt == 49:
		return stylerange.CategoryText, ""
	}
	return stylerange.CategoryNumeric, ""
}

func classifyFormatCode(code string) (stylerange.Category, string) {
	parser := nfp.NumberFormatParser()
	sections := parser.Parse(code)
	if len(sections) == 0 {
		return stylerange.CategoryNumeric, ""
	}
	var hasDate, hasTime, hasMinuteOrMonth, hasPercent, hasText, hasDigits bool
	currency := ""
	for _, token := range sections[0].Items {
		switch token.TType {
		case nfp.TokenTypeCurrencyLanguage:
			if symbol := currencyFromLanguage(token.TValue); symbol != "" && currency == "" {
				currency = symbol
			}
		case nfp.TokenTypeLiteral:
			if currency == "" {
				currency = literalCurrency(token.TValue)
			}
		case nfp.TokenTypePercent:
			hasPercent = true
		case nfp.TokenTypeElapsedDateTimes:
			hasTime = true
		case nfp.TokenTypeDateTimes:
			switch dateTimePart(token.TValue) {
			case partDate:
				hasDate = true
			case partTime:
				hasTime = true
			case partMinuteOrMonth:
				hasMinuteOrMonth = true
			}
		case nfp.TokenTypeTextPlaceHolder:
			hasText = true
		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			hasDigits = true
		}
	}
	switch {
	case currency != "":
		return stylerange.CategoryCurrency, currency
	case hasPercent:
		return stylerange.CategoryPercent, ""
	case hasDate:
		return stylerange.CategoryDateTime, ""
	case hasTime:
		// "m" next to hours or seconds means minutes
		return stylerange.CategoryTime, ""
	case hasMinuteOrMonth:
		return stylerange.CategoryDateTime, ""
	case hasText && !hasDigits:
		return stylerange.CategoryText, ""
	}
	return stylerange.CategoryNumeric, ""
}

// currencyFromLanguage extracts the symbol of a "[$€-407]" token. Pure
// locale tokens like "[$-409]" carry no symbol.
func currencyFromLanguage(value string) string {
	value = strings.Trim(value, "[]")
	value = strings.TrimPrefix(value, "$")
	symbol, _, _ := strings.Cut(value, "-")
	return symbol
}

func literalCurrency(value string) string {
	value = strings.TrimSpace(strings.Trim(value, "\"\\"))
	for _, symbol := range currencySymbols {
		if value == symbol {
			return symbol
		}
	}
	return ""
}

type dateTimeField int

const (
	partNone dateTimeField = iota
	partDate
	partTime
	partMinuteOrMonth
)

func dateTimePart(value string) dateTimeField {
	v := strings.ToLower(value)
	switch {
	case strings.ContainsAny(v, "yde"), strings.Contains(v, "mmm"):
		return partDate
	case strings.ContainsAny(v, "hs"), strings.Contains(v, "am/pm"), strings.Contains(v, "a/p"):
		return partTime
	case strings.Contains(v, "m"):
		return partMinuteOrMonth
	}
	return partNone
}
