// Package redact scrubs secrets and personal data from strings before they
// are written to logs. Error messages from the database driver, the JWT
// library and the NATS client can echo connection strings, tokens and user
// emails; everything logged at the API edge passes through here first.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for redacted content.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	HashPlaceholder       = "[REDACTED_HASH]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	StackTracePlaceholder = "[REDACTED_STACK]"
)

type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// rules run in order. URL credentials go before emails, since
// "user:pw@host.tld" would otherwise half-match as an address.
var rules = []rule{
	// scheme://user:password@ for postgres, nats and friends
	{regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`), CredentialPlaceholder},
	// key=value DSN form: password=secret
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|jwt_secret)\s*[=:]\s*['"]?[^'"\s&,]+`), CredentialPlaceholder},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/-]+=*`), TokenPlaceholder},
	{regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`), TokenPlaceholder},
	{regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`), HashPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
	{regexp.MustCompile(`(?is)\b(SELECT|INSERT\s+INTO|UPDATE|DELETE\s+FROM)\b.*?(\bFROM\b|\bSET\b|\bVALUES\b|\bWHERE\b|\bRETURNING\b)[^;]*`), SQLPlaceholder},
	{regexp.MustCompile(`(?m)goroutine \d+ \[[^\]]+\]:[\s\S]*`), StackTracePlaceholder},
	{regexp.MustCompile(`(?:/[\w.-]+){3,}`), PathPlaceholder},
}

// String returns s with every sensitive fragment replaced by a placeholder.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.placeholder)
	}
	return s
}

// Error returns the redacted message of err, or "" for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Attr is slog.String("error", Error(err)).
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
