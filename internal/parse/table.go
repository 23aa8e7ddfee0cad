package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxNumeric is the highest number in a numeric table name ("00".."20").
	MaxNumeric = 20
	// MinSuffix and MaxSuffix bound the number after a letter ("A01".."Z20").
	MinSuffix = 1
	MaxSuffix = 20
)

var (
	numericRe      = regexp.MustCompile(`^(\d{2})$`)
	alphanumericRe = regexp.MustCompile(`^([A-Z])(\d{2})$`)
)

// Kind classifies a table name against the naming grammar.
type Kind string

const (
	KindNumeric      Kind = "numeric"
	KindAlphanumeric Kind = "alphanumeric"
	KindLegacy       Kind = "legacy"
)

// TableName holds the structured parts of a table name.
type TableName struct {
	Kind   Kind
	Letter byte
	Number int
}

// String renders the name in its canonical form.
func (n TableName) String() string {
	switch n.Kind {
	case KindNumeric:
		return FormatNumeric(n.Number)
	case KindAlphanumeric:
		return FormatAlphanumeric(n.Letter, n.Number)
	}
	return ""
}

// FormatNumeric renders n as a two-digit zero-padded name, e.g. 7 -> "07".
func FormatNumeric(n int) string {
	return fmt.Sprintf("%02d", n)
}

// FormatAlphanumeric renders a letter-prefixed name, e.g. ('B', 3) -> "B03".
func FormatAlphanumeric(letter byte, n int) string {
	return string(letter) + FormatNumeric(n)
}

// ParseTableName matches raw against the naming grammar. Names that were
// entered by hand and do not conform return an error; callers that only need
// a label should use Classify.
func ParseTableName(raw string) (TableName, error) {
	s := strings.TrimSpace(raw)

	if m := numericRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n <= MaxNumeric {
			return TableName{Kind: KindNumeric, Number: n}, nil
		}
		return TableName{}, fmt.Errorf("numeric table name out of range: %q", raw)
	}

	if m := alphanumericRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil && n >= MinSuffix && n <= MaxSuffix {
			return TableName{Kind: KindAlphanumeric, Letter: m[1][0], Number: n}, nil
		}
		return TableName{}, fmt.Errorf("alphanumeric table name out of range: %q", raw)
	}

	return TableName{}, fmt.Errorf("unable to parse table name: %q", raw)
}

// Classify returns the grammar kind of raw, or KindLegacy when it does not
// conform. Only exact names are accepted: " 07" is legacy.
func Classify(raw string) Kind {
	if raw != strings.TrimSpace(raw) {
		return KindLegacy
	}
	parsed, err := ParseTableName(raw)
	if err != nil {
		return KindLegacy
	}
	return parsed.Kind
}
