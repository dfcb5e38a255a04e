// Package validation holds input rules shared by services and handlers.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxNameLength     = 100
	MaxBioLength      = 500
	MaxCaptionLength  = 2200
	MaxCommentLength  = 1000
)

// ValidateEmail checks a single bare address such as "ada@example.com".
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return errors.New("email is invalid")
	}
	return nil
}

// ValidatePassword requires 8-128 characters with at least one letter and one digit.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain a letter and a digit")
	}
	return nil
}

// ValidateName checks an already trimmed display name.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name must be at most %d characters", MaxNameLength)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return errors.New("name contains invalid characters")
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return fmt.Errorf("bio must be at most %d characters", MaxBioLength)
	}
	return nil
}

func ValidateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return fmt.Errorf("caption must be at most %d characters", MaxCaptionLength)
	}
	return nil
}

// ValidateCommentText checks trimmed comment text.
func ValidateCommentText(text string) error {
	if text == "" {
		return errors.New("Comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
	}
	return nil
}
