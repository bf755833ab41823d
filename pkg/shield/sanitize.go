package shield

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/qiscreen/pkg/domain"
)

var (
	// DefaultMaxInputSize bounds each free-text action, in bytes.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default.
	EnvMaxInputSize = "QISCREEN_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeActions cleans the free-text parts of a remediation response. Oversized or
// invalid UTF-8 text is rejected; control characters other than tab and newline are
// stripped, which keeps terminal escapes out of logs and rendered output.
func SanitizeActions(a domain.UserActions) (domain.UserActions, error) {
	out := a
	var err error
	if out.PatternStatement, err = sanitizeText("pattern_statement", a.PatternStatement); err != nil {
		return domain.UserActions{}, err
	}
	if out.GroundingAnswers, err = sanitizeList("grounding_answers", a.GroundingAnswers); err != nil {
		return domain.UserActions{}, err
	}
	if out.ConcreteActions, err = sanitizeList("concrete_actions", a.ConcreteActions); err != nil {
		return domain.UserActions{}, err
	}
	return out, nil
}

func sanitizeList(field string, items []string) ([]string, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		clean, err := sanitizeText(fmt.Sprintf("%s[%d]", field, i), s)
		if err != nil {
			return nil, err
		}
		out[i] = clean
	}
	return out, nil
}

func sanitizeText(field, input string) (string, error) {
	// Rejected rather than truncated, so a recorded action is always what the user sent.
	if limit := maxInputSize(); len(input) > limit {
		return "", fmt.Errorf("%w: %w (size=%d limit=%d)",
			&domain.ContractError{Field: field, Reason: "too large"}, ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", fmt.Errorf("%w: %w", &domain.ContractError{Field: field, Reason: "invalid UTF-8"}, ErrInvalidUTF8)
	}

	// Fast path: if no control chars, return as is.
	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if isUnsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t'
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
