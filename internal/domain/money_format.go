package domain

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// numberFormat describes how a locale writes currency amounts
type numberFormat struct {
	group       string
	decimal     string
	symbolFirst bool
	symbolSpace bool
}

// supportedLocales lists the locales Format knows about. The first entry is
// the fallback for unknown or unparsable locales.
var supportedLocales = []struct {
	tag    language.Tag
	format numberFormat
}{
	{language.BrazilianPortuguese, numberFormat{group: ".", decimal: ",", symbolFirst: true, symbolSpace: true}},
	{language.AmericanEnglish, numberFormat{group: ",", decimal: ".", symbolFirst: true}},
	{language.BritishEnglish, numberFormat{group: ",", decimal: ".", symbolFirst: true}},
	{language.EuropeanPortuguese, numberFormat{group: " ", decimal: ",", symbolSpace: true}},
	{language.German, numberFormat{group: ".", decimal: ",", symbolSpace: true}},
	{language.French, numberFormat{group: " ", decimal: ",", symbolSpace: true}},
	{language.Spanish, numberFormat{group: ".", decimal: ",", symbolSpace: true}},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(supportedLocales))
	for i, l := range supportedLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

var currencySymbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

func lookupNumberFormat(locale string) numberFormat {
	tag, err := language.Parse(locale)
	if err != nil {
		return supportedLocales[0].format
	}
	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(supportedLocales) {
		return supportedLocales[0].format
	}
	return supportedLocales[index].format
}

func currencySymbol(code string) (symbol string, known bool) {
	if s, ok := currencySymbols[code]; ok {
		return s, true
	}
	return code, false
}

// Format renders m for display in the given locale, e.g. "R$ 1.234,50" for pt-BR.
// Currencies without a known symbol are written with their ISO code.
func (m Money) Format(locale string) string {
	f := lookupNumberFormat(locale)
	scale := currencyScale(m.currency)

	negative := m.minor < 0
	abs := uint64(m.minor)
	if negative {
		abs = uint64(-(m.minor + 1)) + 1
	}

	divisor := uint64(1)
	for i := int32(0); i < scale; i++ {
		divisor *= 10
	}

	number := groupDigits(strconv.FormatUint(abs/divisor, 10), f.group)
	if scale > 0 {
		number += f.decimal + fmt.Sprintf("%0*d", int(scale), abs%divisor)
	}

	symbol, known := currencySymbol(m.currency)
	space := ""
	if f.symbolSpace || !known {
		space = " "
	}

	var out string
	if f.symbolFirst {
		out = symbol + space + number
	} else {
		out = number + space + symbol
	}
	if negative {
		out = "-" + out
	}
	return out
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 || sep == "" {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseFormatted reverses Format: it accepts a display string for the given
// locale ("R$ 1.234,50") and returns the amount in the given currency.
func ParseFormatted(s string, locale string, code string) (Money, error) {
	f := lookupNumberFormat(locale)
	text := strings.ReplaceAll(strings.TrimSpace(s), " ", " ")
	if text == "" {
		return Money{}, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	negative := false
	if strings.HasPrefix(text, "-") {
		negative = true
		text = strings.TrimSpace(text[1:])
	}

	symbol, _ := currencySymbol(strings.ToUpper(code))
	text = strings.TrimSpace(strings.Replace(text, symbol, "", 1))
	if strings.HasPrefix(text, "-") && !negative {
		negative = true
		text = strings.TrimSpace(text[1:])
	}

	if f.group != "" {
		text = strings.ReplaceAll(text, f.group, "")
	}
	text = strings.ReplaceAll(text, " ", "")
	if f.decimal != "." {
		if strings.Contains(text, ".") {
			return Money{}, fmt.Errorf("%w: unexpected '.' for locale %s", ErrInvalidAmount, locale)
		}
		text = strings.Replace(text, f.decimal, ".", 1)
	}
	if negative {
		text = "-" + text
	}

	return ParseMoney(text, code)
}
