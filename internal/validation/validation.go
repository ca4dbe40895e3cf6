// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxUsernameLen matches the users.username column width.
	MaxUsernameLen = 20
	// MaxProfileLen matches the users.profile column width.
	MaxProfileLen = 150
	// MaxCaptionLen matches the posts.caption column width.
	MaxCaptionLen = 300
	// MaxCommentLen matches the comments.text column width.
	MaxCommentLen = 150
	// MaxAvatarURLLen matches the users.avatar column width.
	MaxAvatarURLLen = 255
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
	specialRegex  = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	// Only allow alphanumeric, underscores and hyphens
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}

	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return fmt.Errorf("password must be at least 12 characters long")
	}

	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	hasUpper := false
	hasLower := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}

	if !digitRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}

	if !specialRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character (!@#$%%^&*)")
	}

	return nil
}

// ValidateProfile checks a profile bio. The bio is optional.
func ValidateProfile(profile string) error {
	if len(profile) > MaxProfileLen {
		return fmt.Errorf("profile must not exceed %d characters", MaxProfileLen)
	}
	return nil
}

// ValidateAvatarURL checks an avatar image URL. The avatar is optional;
// an empty string clears it.
func ValidateAvatarURL(avatar string) error {
	if avatar == "" {
		return nil
	}
	if len(avatar) > MaxAvatarURLLen {
		return fmt.Errorf("avatar URL must not exceed %d characters", MaxAvatarURLLen)
	}
	u, err := url.ParseRequestURI(avatar)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("avatar must be a valid http(s) URL")
	}
	return nil
}

// ValidateCaption checks a post caption. Captions are optional.
func ValidateCaption(caption string) error {
	if len(caption) > MaxCaptionLen {
		return fmt.Errorf("caption must not exceed %d characters", MaxCaptionLen)
	}
	return nil
}

// ValidateCommentText checks a comment body. Text is required.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}
	if len(text) > MaxCommentLen {
		return fmt.Errorf("comment must not exceed %d characters", MaxCommentLen)
	}
	return nil
}

// SplitKeywords splits a raw search query into whitespace-separated
// keywords. An empty or whitespace-only query yields no keywords, which
// callers must treat as an empty result set rather than an unfiltered one.
func SplitKeywords(query string) []string {
	return strings.Fields(query)
}
