// Package validation contains input validation helpers.
package validation

import "unicode"

// IsValidPhone checks an Indonesian phone number: an optional +62, 62 or 0
// prefix followed by digits, 9 to 15 digits overall.
func IsValidPhone(phone string) bool {
	if phone == "" {
		return false
	}

	if phone[0] == '+' {
		phone = phone[1:]
	}

	digits := 0
	for _, ch := range phone {
		if !unicode.IsDigit(ch) {
			return false
		}
		digits++
	}

	return digits >= 9 && digits <= 15
}

// IsValidUsername checks a login name: 3 to 20 characters of ASCII letters,
// digits, and underscores.
func IsValidUsername(username string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}

	for _, ch := range username {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case ch == '_':
		default:
			return false
		}
	}
	return true
}
