package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an exact amount in the minor unit of its currency (cents for BRL).
// Arithmetic between two values requires matching currencies.
type Money struct {
	minor    int64
	currency string
}

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Bounds on textual amounts. Scientific notation is accepted, but an exponent
// outside this range cannot describe an int64 count of minor units and would
// otherwise make rounding allocate arbitrarily large integers.
const (
	maxAmountLength = 64
	maxExponent     = 18
	minExponent     = -30
	// maxMinorDigits is the digit count of math.MaxInt64
	maxMinorDigits = 19
)

// NewMoney builds a Money from an amount already expressed in minor units
func NewMoney(minor int64, code string) Money {
	return Money{minor: minor, currency: strings.ToUpper(strings.TrimSpace(code))}
}

// Zero returns a zero amount of the given currency
func Zero(code string) Money {
	return NewMoney(0, code)
}

// ValidateCurrency checks that code is a known ISO 4217 currency
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(strings.TrimSpace(code)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return nil
}

// currencyScale returns the number of minor-unit digits for a currency.
// Unknown codes fall back to two digits.
func currencyScale(code string) int32 {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// FromDecimal converts a decimal amount to Money, rounding half-to-even to the minor unit
func FromDecimal(amount decimal.Decimal, code string) (Money, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := ValidateCurrency(code); err != nil {
		return Money{}, err
	}

	scale := currencyScale(code)

	// integer digits of the amount; checked before rounding touches the coefficient
	digits := int64(amount.NumDigits()) + int64(amount.Exponent())
	if digits+int64(scale) > maxMinorDigits {
		return Money{}, fmt.Errorf("%w: more than %d digits in minor units", ErrAmountOverflow, maxMinorDigits)
	}
	if digits < -int64(scale)-1 {
		// below half a minor unit
		return Money{currency: code}, nil
	}

	minor := amount.RoundBank(scale).Shift(scale)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return Money{}, fmt.Errorf("%w: does not fit in minor units", ErrAmountOverflow)
	}

	return Money{minor: minor.IntPart(), currency: code}, nil
}

// ParseMoney parses a plain decimal string ("1234.5", "1234,50", "-12") into Money.
// Digits beyond the currency's minor unit are rounded half-to-even.
func ParseMoney(s string, code string) (Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Money{}, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	if len(raw) > maxAmountLength {
		return Money{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidAmount, maxAmountLength)
	}
	if strings.Contains(raw, ",") && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("%w: not a decimal number", ErrInvalidAmount)
	}
	if err := checkExponent(amount); err != nil {
		return Money{}, err
	}

	return FromDecimal(amount, code)
}

func checkExponent(amount decimal.Decimal) error {
	if exp := amount.Exponent(); exp > maxExponent || exp < minExponent {
		return fmt.Errorf("%w: exponent out of range", ErrInvalidAmount)
	}
	return nil
}

// ParseRate parses a rate fraction such as "0.008" (0.8%) under the same
// length and exponent bounds as amounts
func ParseRate(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" || len(raw) > maxAmountLength {
		return decimal.Decimal{}, fmt.Errorf("%w: rate must be a short decimal", ErrInvalidInput)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: rate is not a decimal number", ErrInvalidInput)
	}
	if exp := rate.Exponent(); exp > maxExponent || exp < minExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: rate exponent out of range", ErrInvalidInput)
	}
	return rate, nil
}

// ParsePositiveMoney parses like ParseMoney and rejects amounts that are not > 0
func ParsePositiveMoney(s string, code string) (Money, error) {
	m, err := ParseMoney(s, code)
	if err != nil {
		return Money{}, err
	}
	if !m.IsPositive() {
		return Money{}, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return m, nil
}

// MinorUnits returns the raw amount in minor units
func (m Money) MinorUnits() int64 {
	return m.minor
}

// Currency returns the ISO 4217 code
func (m Money) Currency() string {
	return m.currency
}

// Decimal returns the amount in major units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -currencyScale(m.currency))
}

// String renders the amount with exactly the currency's minor-unit digits, e.g. "1234.50"
func (m Money) String() string {
	return m.Decimal().StringFixed(currencyScale(m.currency))
}

func (m Money) IsZero() bool {
	return m.minor == 0
}

func (m Money) IsPositive() bool {
	return m.minor > 0
}

func (m Money) IsNegative() bool {
	return m.minor < 0
}

// Neg returns the amount with its sign flipped
func (m Money) Neg() Money {
	return Money{minor: -m.minor, currency: m.currency}
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s and %s", ErrMixedCurrency, m.currency, other.currency)
	}
	return nil
}

// Add returns m + other
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if (other.minor > 0 && m.minor > math.MaxInt64-other.minor) ||
		(other.minor < 0 && m.minor < math.MinInt64-other.minor) {
		return Money{}, ErrAmountOverflow
	}
	return Money{minor: m.minor + other.minor, currency: m.currency}, nil
}

// Sub returns m - other
func (m Money) Sub(other Money) (Money, error) {
	if other.minor == math.MinInt64 {
		return Money{}, ErrAmountOverflow
	}
	return m.Add(other.Neg())
}

// MulFraction multiplies by an arbitrary decimal factor and rounds half-to-even to the minor unit
func (m Money) MulFraction(factor decimal.Decimal) (Money, error) {
	return FromDecimal(m.Decimal().Mul(factor), m.currency)
}

// MulInt multiplies by a whole number exactly
func (m Money) MulInt(n int64) (Money, error) {
	return m.MulFraction(decimal.NewFromInt(n))
}

// Cmp compares two amounts of the same currency: -1, 0 or +1
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	switch {
	case m.minor < other.minor:
		return -1, nil
	case m.minor > other.minor:
		return 1, nil
	}
	return 0, nil
}

// Equal reports whether both amount and currency match
func (m Money) Equal(other Money) bool {
	return m.minor == other.minor && m.currency == other.currency
}

type moneyJSON struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

// MarshalJSON encodes as {"amount":"1234.50","currency":"BRL"}
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{Amount: m.String(), Currency: m.currency})
}

// UnmarshalJSON accepts the amount as either a string or a JSON number
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := DecimalFromJSON(raw.Amount)
	if err != nil {
		return err
	}
	parsed, err := FromDecimal(amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DecimalFromJSON reads a decimal from a JSON string or number literal without
// passing through float64.
func DecimalFromJSON(raw json.RawMessage) (decimal.Decimal, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return decimal.Decimal{}, fmt.Errorf("%w: missing value", ErrInvalidAmount)
	}
	if len(text) > maxAmountLength+2 {
		return decimal.Decimal{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidAmount, maxAmountLength)
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: malformed string", ErrInvalidAmount)
		}
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: not a decimal number", ErrInvalidAmount)
	}
	if err := checkExponent(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}
