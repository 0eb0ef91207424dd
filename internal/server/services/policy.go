package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Defaults for the local mobile numbering plan and the PIN shape.
const (
	DefaultIdentityPattern = `^09\d{9}$`
	DefaultSecretMinLength = 4
	DefaultSecretMaxLength = 6
)

// Policy holds the input rules the workflows enforce. It is immutable once
// built and safe for concurrent use.
type Policy struct {
	IdentityPattern *regexp.Regexp
	SecretMinLength int
	SecretMaxLength int
}

// DefaultPolicy returns the phone/PIN policy.
func DefaultPolicy() Policy {
	return Policy{
		IdentityPattern: regexp.MustCompile(DefaultIdentityPattern),
		SecretMinLength: DefaultSecretMinLength,
		SecretMaxLength: DefaultSecretMaxLength,
	}
}

// NewPolicy compiles pattern and checks the secret bounds. An empty pattern
// selects DefaultIdentityPattern.
func NewPolicy(pattern string, minLen, maxLen int) (Policy, error) {
	if pattern == "" {
		pattern = DefaultIdentityPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Policy{}, &common.ConfigurationError{Field: "IdentityPattern", Msg: err.Error()}
	}
	if minLen < 1 || maxLen < minLen {
		return Policy{}, &common.ConfigurationError{
			Field: "SecretMinLength",
			Msg:   fmt.Sprintf("invalid secret length bounds [%d, %d]", minLen, maxLen),
		}
	}
	return Policy{IdentityPattern: re, SecretMinLength: minLen, SecretMaxLength: maxLen}, nil
}

func (p Policy) validIdentity(identity string) bool {
	return p.IdentityPattern.MatchString(identity)
}

func (p Policy) validSecret(secret string) bool {
	if len(secret) < p.SecretMinLength || len(secret) > p.SecretMaxLength {
		return false
	}
	for _, r := range secret {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var identityNoise = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// NormalizeIdentity removes common phone-number punctuation and rewrites an
// international +63 prefix to the local trunk prefix 0, so "+63 917-123-4567"
// and "09171234567" name the same account.
func NormalizeIdentity(raw string) string {
	s := identityNoise.Replace(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "+63"):
		return "0" + s[3:]
	case strings.HasPrefix(s, "63") && len(s) == 12:
		return "0" + s[2:]
	}
	return s
}
