// Package pricing estimates the monetary cost of a leak-search query from
// the requested limit and the lexical complexity of the query text.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minWordLength = 4

// Complexity maps the number of significant words in a query to the
// upstream pricing tiers. Short tokens and purely numeric tokens (dates,
// phone numbers) do not count. Zero significant words lands in the same
// tier as four or more; the upstream pricing doc reads that way, so it is
// kept even though it charges the top rate for numeric-only queries.
func Complexity(query string) int {
	count := 0
	for _, w := range strings.Fields(query) {
		if utf8.RuneCountInString(w) >= minWordLength && !isNumeric(w) {
			count++
		}
	}

	switch count {
	case 1:
		return 1
	case 2:
		return 5
	case 3:
		return 16
	default:
		return 40
	}
}

// Estimate returns the query cost rounded to 6 decimal places.
func Estimate(limit int, query string) float64 {
	cost := (5 + math.Sqrt(float64(limit*Complexity(query)))) / 5000
	return math.Round(cost*1e6) / 1e6
}

// BalanceImpact renders the cost as a user-facing deduction notice.
func BalanceImpact(cost float64) string {
	return fmt.Sprintf("$%s will be deducted", strconv.FormatFloat(cost, 'f', -1, 64))
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
