package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders lists the lowercase HTTP header names whose values never
// reach the logs. The masq layer below redacts attributes with these names
// and the HTTP middleware masks the same headers when dumping requests.
var SensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"cookie":              true,
	"set-cookie":          true,
}

// sensitiveFields are attribute names redacted regardless of value. "dsn"
// covers store.dsn, which for a file-backed sqlite store may carry a path
// or query parameters.
var sensitiveFields = []string{"password", "secret", "token", "dsn"}

// sensitivePrefixes catch variants such as secret_key or api_key_v2.
var sensitivePrefixes = []string{"secret_", "api_key"}

var (
	// "Bearer <token>" appearing inside arbitrary values.
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

	// header.payload.signature with at least 10 characters per segment, so
	// dotted version strings are left alone.
	jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)

	// api_key=<value> or apikey:<value> inline.
	apiKeyInlinePattern = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)
)

// newRedactAttr builds the masq ReplaceAttr hook from the lists above.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	patterns := []*regexp.Regexp{bearerPattern, jwtPattern, apiKeyInlinePattern}
	opts := make([]masq.Option, 0,
		len(SensitiveHeaders)+len(sensitiveFields)+len(sensitivePrefixes)+len(patterns))

	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range patterns {
		opts = append(opts, masq.WithRegex(re))
	}

	return masq.New(opts...)
}
