package api

import (
	"fmt"     // Error formatting
	"math"    // NaN and Inf checks
	"strconv" // Number parsing
	"strings" // String manipulation
)

// Amount is a transaction amount. Clients send it as a JSON number or a numeric string.
type Amount float64

// AmountError reports an amount that is not a finite number
type AmountError struct {
	Raw string // Raw JSON value
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("amount %s is not a number", e.Raw)
}

// UnmarshalJSON accepts 12.5 as well as "12.5"
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted) // Numeric string
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return &AmountError{Raw: string(data)}
	}
	*a = Amount(f)
	return nil
}

// float returns the amount as a float pointer, nil when absent
func (a *Amount) float() *float64 {
	if a == nil {
		return nil
	}
	f := float64(*a)
	return &f
}
