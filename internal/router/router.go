package router

import (
	"errors"
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
)

// ErrUnclassifiable is returned when a symbol matches no asset class.
var ErrUnclassifiable = errors.New("router: symbol cannot be classified")

// isoCurrencies covers the currency codes accepted as halves of a forex
// pair. Pairs outside this table classify as stock or fail.
var isoCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "JPY": {}, "CHF": {}, "CAD": {},
	"AUD": {}, "NZD": {}, "CNY": {}, "CNH": {}, "HKD": {}, "SGD": {},
	"SEK": {}, "NOK": {}, "DKK": {}, "MXN": {}, "ZAR": {}, "TRY": {},
	"PLN": {}, "HUF": {}, "CZK": {}, "INR": {}, "BRL": {}, "KRW": {},
	"THB": {}, "TWD": {}, "ILS": {},
}

// Router classifies raw symbols into analysis domains. Classification is
// pure and deterministic for a fixed allow-list.
type Router struct {
	crypto map[string]struct{}
}

// New builds a Router from the configured crypto allow-list.
func New(cryptoSymbols []string) *Router {
	crypto := make(map[string]struct{}, len(cryptoSymbols))
	for _, s := range cryptoSymbols {
		crypto[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return &Router{crypto: crypto}
}

// Classify maps a symbol to its analysis domain. An explicit hint wins
// over the built-in rules. The symbol is normalized to upper case first.
func (r *Router) Classify(symbol, hint string) (models.Domain, string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if err := ValidateSymbol(sym); err != nil {
		return "", "", err
	}

	switch strings.ToLower(hint) {
	case "crypto":
		return models.DomainCrypto, sym, nil
	case "stock":
		return models.DomainStock, sym, nil
	case "":
	default:
		return "", "", fmt.Errorf("%w: unknown hint %q", ErrUnclassifiable, hint)
	}

	if _, ok := r.crypto[sym]; ok {
		return models.DomainCrypto, sym, nil
	}
	if IsForexPair(sym) {
		return models.DomainForex, sym, nil
	}
	if len(sym) <= 5 && isAlpha(sym) {
		return models.DomainStock, sym, nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnclassifiable, sym)
}

// IsCrypto reports whether the symbol is on the crypto allow-list.
func (r *Router) IsCrypto(symbol string) bool {
	_, ok := r.crypto[strings.ToUpper(symbol)]
	return ok
}

// CryptoSymbols returns the allow-list in no particular order.
func (r *Router) CryptoSymbols() []string {
	out := make([]string, 0, len(r.crypto))
	for s := range r.crypto {
		out = append(out, s)
	}
	return out
}

// Normalize upper-cases and validates a raw symbol.
func Normalize(symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if err := ValidateSymbol(sym); err != nil {
		return "", err
	}
	return sym, nil
}

// ValidateSymbol enforces the symbol grammar: 2 to 15 ASCII
// alphanumeric characters.
func ValidateSymbol(symbol string) error {
	if len(symbol) < 2 || len(symbol) > 15 {
		return fmt.Errorf("%w: symbol length must be 2-15, got %d", ErrUnclassifiable, len(symbol))
	}
	for _, c := range symbol {
		if !isAlnumByte(c) {
			return fmt.Errorf("%w: symbol contains invalid character %q", ErrUnclassifiable, c)
		}
	}
	return nil
}

// IsForexPair reports whether the symbol is a six-letter concatenation
// of two known currency codes.
func IsForexPair(symbol string) bool {
	if len(symbol) != 6 || !isAlpha(symbol) {
		return false
	}
	base, quote := symbol[:3], symbol[3:]
	_, okB := isoCurrencies[base]
	_, okQ := isoCurrencies[quote]
	return okB && okQ
}

// SplitPair splits a validated forex pair into base and quote codes.
func SplitPair(pair string) (string, string) {
	p := strings.ToUpper(pair)
	return p[:3], p[3:]
}

func isAlpha(s string) bool {
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return len(s) > 0
}

func isAlnumByte(c rune) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
