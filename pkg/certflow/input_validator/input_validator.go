// Package input_validator holds the whitelist validators every value must pass before it is
// interpolated into a command line handed to the command gateway.
package input_validator

import (
	"regexp"
	"strings"
)

const (
	MaxSubjectFieldLength = 200
	MaxSANLength          = 253
	MaxHostnameLength     = 253
	MaxConfigStringLength = 500
	MaxTemplateNameLength = 200
)

var (
	subjectFieldPattern = regexp.MustCompile(`^[A-Za-z0-9 .,_@()-]+$`)
	sanPattern          = regexp.MustCompile(`^[A-Za-z0-9.*@_-]+(\.[A-Za-z0-9*_-]+)*$`)
	hostnamePattern     = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	configStringPattern = regexp.MustCompile(`^[A-Za-z0-9._\\-]+$`)
	thumbprintPattern   = regexp.MustCompile(`^[A-Fa-f0-9]+$`)
	templateNamePattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)
)

func IsValidSubjectField(s string) bool {
	return len(s) <= MaxSubjectFieldLength && subjectFieldPattern.MatchString(s)
}

func IsValidSAN(s string) bool {
	return len(s) <= MaxSANLength && sanPattern.MatchString(s)
}

func IsValidHostname(s string) bool {
	return len(s) <= MaxHostnameLength && hostnamePattern.MatchString(s)
}

// IsValidConfigString accepts the "host\caname" addressing form of a CA.
func IsValidConfigString(s string) bool {
	return len(s) <= MaxConfigStringLength && configStringPattern.MatchString(s)
}

func IsValidThumbprint(s string) bool {
	return thumbprintPattern.MatchString(s)
}

func IsValidTemplateName(s string) bool {
	return len(s) <= MaxTemplateNameLength && templateNamePattern.MatchString(s)
}

// IsValidHashAlgorithm is the gateway level allow-list. It still accepts SHA1 for reading
// legacy CA data; the CSR workflow applies its own, stricter list.
func IsValidHashAlgorithm(s string) bool {
	switch strings.ToUpper(s) {
	case "SHA1", "SHA256", "SHA384", "SHA512":
		return true
	}
	return false
}

func IsValidKeySize(n int) bool {
	return n == 2048 || n == 4096
}

// EscapeForCommandSingleQuote doubles every single quote so the value can sit inside a
// single-quoted literal of the target shell. Callers must wrap the result in single quotes,
// never double quotes, which expand variables.
func EscapeForCommandSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteForCommand escapes s and wraps it in single quotes.
func QuoteForCommand(s string) string {
	return "'" + EscapeForCommandSingleQuote(s) + "'"
}
