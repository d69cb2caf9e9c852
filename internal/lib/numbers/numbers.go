package numbers

import (
	"strconv"
	"strings"
)

// ParseCSV reconstructs an integer sequence from a comma-separated string the
// way the data service stores winning and machine numbers. Fragments are
// trimmed and parsed base-10; empty or non-numeric fragments are dropped.
func ParseCSV(value string) []int {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var parsed []int

	for _, fragment := range strings.Split(value, ",") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		n, err := strconv.Atoi(fragment)
		if err != nil {
			continue
		}

		parsed = append(parsed, n)
	}

	return parsed
}

// JoinCSV encodes an integer sequence into the comma-separated wire form.
func JoinCSV(values []int) string {
	if len(values) == 0 {
		return ""
	}

	fragments := make([]string, len(values))
	for i, v := range values {
		fragments[i] = strconv.Itoa(v)
	}

	return strings.Join(fragments, ",")
}

// Normalize strips whitespace and leading zeros from a raw slot value. It
// returns the canonical decimal form and false when the value is not a
// base-10 integer.
func Normalize(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", false
	}

	return strconv.Itoa(n), true
}
