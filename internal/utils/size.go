package utils

import (
	"fmt"
	"strconv"
)

// UnknownTokenLabel is displayed when a token count is not yet known or failed.
const UnknownTokenLabel = "—"

const thousandTokens = 1000

// FormatTokenCount renders a token count for display: plain below one thousand,
// thousands with one decimal and a "k" suffix otherwise.
func FormatTokenCount(count int) string {
	if count < thousandTokens {
		return strconv.Itoa(count)
	}
	return fmt.Sprintf("%.1fk", float64(count)/thousandTokens)
}
