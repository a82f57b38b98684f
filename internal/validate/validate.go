package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reBrand = regexp.MustCompile(`^[\p{L}\p{N} .&'+-]{1,64}$`)
)

const maxQ = 50

// Q validates a search term: trims it and rejects terms longer than maxQ runes
// or carrying markup and control characters.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxQ {
		return "", false
	}
	for _, r := range s {
		if unicode.IsControl(r) || strings.ContainsRune("<>{}`", r) {
			return "", false
		}
	}
	return s, true
}

// ID validates a resource identifier (document ids, category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Brand validates a brand facet value.
func Brand(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reBrand.MatchString(s)
}

// Index parses a cart line position.
func Index(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
