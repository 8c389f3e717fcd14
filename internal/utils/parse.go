package utils

import (
	"strconv"
	"strings"
)

// ParseID parses a decimal id from query or path input.
func ParseID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
