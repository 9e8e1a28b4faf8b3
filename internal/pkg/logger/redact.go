package logger

import "strings"

// RedactEmail masks the local part of an address so log lines can still
// be correlated by recipient domain without exposing the mailbox.
// "maria.lopez@ngo.org" becomes "ma***@ngo.org"; local parts of two
// characters or fewer are masked entirely; anything that does not look
// like an address becomes "***@***".
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(local) <= 2 {
		return "***@" + domain
	}
	return local[:2] + "***@" + domain
}
