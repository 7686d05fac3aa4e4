// Package validate holds the local form-validation rules. All checks are
// pure; callers decide the order and the user-facing message.
package validate

import "regexp"

// emailPattern accepts anything of the shape local@domain.tld with no
// whitespace. Deliverability is the backend's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordsMatch reports whether the password and its confirmation agree.
func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}

// MeetsMinLength reports whether s is at least min characters long.
func MeetsMinLength(s string, min int) bool {
	return len(s) >= min
}
