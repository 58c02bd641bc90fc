// Package redact scrubs credentials from strings before they are logged.
// Error bodies returned by the image service and the credential helpers can
// echo request headers, access tokens or key material; every error the batch
// logs passes through Error first.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
)

// Precompiled regex patterns. Order matters: the more specific token shapes
// run before the generic key=value pattern.
var (
	// PEM blocks, e.g. the private_key of a service account file
	pemBlockRegex = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`)

	// Authorization header values
	bearerRegex = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9_\-.~+/]+=*`)

	// Google OAuth2 access and refresh tokens
	googleAccessTokenRegex  = regexp.MustCompile(`\bya29\.[A-Za-z0-9_\-.]+`)
	googleRefreshTokenRegex = regexp.MustCompile(`\b1//[A-Za-z0-9_\-]{20,}`)

	// Google API keys
	googleAPIKeyRegex = regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{35}\b`)

	// JWT token pattern - matches the standard three-part base64url-encoded JWT token format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Generic credentials in key=value, key: value and JSON forms
	secretFieldRegex = regexp.MustCompile(
		`(?i)("?(?:access_token|refresh_token|id_token|client_secret|private_key|api[_-]?key|password)"?)(\s*[:=]\s*"?)[^"&,\s}]{4,}`,
	)

	// All patterns and their placeholders
	patterns = []*regexp.Regexp{
		pemBlockRegex, bearerRegex, googleAccessTokenRegex, googleRefreshTokenRegex,
		googleAPIKeyRegex, jwtTokenRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		pemBlockRegex:           RedactedKeyPlaceholder,
		bearerRegex:             "Bearer " + RedactedTokenPlaceholder,
		googleAccessTokenRegex:  RedactedTokenPlaceholder,
		googleRefreshTokenRegex: RedactedTokenPlaceholder,
		googleAPIKeyRegex:       RedactedKeyPlaceholder,
		jwtTokenRegex:           "[REDACTED_JWT]",
	}
)

// String redacts credentials from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		placeholder := RedactionPlaceholder
		if ph, ok := patternPlaceholders[pattern]; ok {
			placeholder = ph
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	// Keep the field name so the log still says what was removed.
	result = secretFieldRegex.ReplaceAllString(result, "${1}${2}"+RedactedCredentialPlaceholder)

	return result
}

// Error redacts credentials from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
