package utils

import (
	"errors"
	"regexp"
	"strings"
)

// Compiled regular expressions for validation
var (
	// State route IDs: three digits, optionally followed by a related roadway
	// type and suffix, e.g. "005", "005RL005EXP", "101COABERDN".
	routeIDPattern = regexp.MustCompile(`^[0-9]{3}[A-Za-z0-9]{0,12}$`)

	// Detect potentially dangerous characters - more focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateRouteID validates a WSDOT state route identifier.
func ValidateRouteID(id string) error {
	if id == "" {
		return errors.New("route cannot be empty")
	}
	if !routeIDPattern.MatchString(id) {
		return errors.New("route must start with a three digit route number")
	}
	return nil
}

// ValidateQuery validates free-text clauses such as routeFilter.
func ValidateQuery(query string) error {
	if query == "" {
		return nil
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius validates a search radius in the input spatial reference's units.
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}

	if radius > 10000 {
		return errors.New("radius too large (max 10000)")
	}

	return nil
}

// ValidateWKID validates a spatial reference well-known ID.
func ValidateWKID(wkid int) error {
	if wkid <= 0 || wkid > 999999 {
		return errors.New("spatial reference must be a positive well-known ID")
	}
	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateAndSanitizeQuery validates and sanitizes a search query
func ValidateAndSanitizeQuery(query string) (string, error) {
	if err := ValidateQuery(query); err != nil {
		return "", err
	}

	return SanitizeInput(query), nil
}
