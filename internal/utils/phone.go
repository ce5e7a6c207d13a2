package utils

import (
	"regexp"
	"strings"
)

var uzPhonePattern = regexp.MustCompile(`^998[0-9]{9}$`)

// NormalizePhone strips surrounding spaces and a leading plus sign.
func NormalizePhone(phone string) string {
	return strings.TrimPrefix(strings.TrimSpace(phone), "+")
}

// ValidPhone reports whether phone is a normalized Uzbek mobile number (998XXXXXXXXX).
func ValidPhone(phone string) bool {
	return uzPhonePattern.MatchString(phone)
}
