package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// NormalizeEmail lowercases and trims an address; callers compare and store
// customers by the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	if email == "" || len(email) > 255 {
		return false
	}
	return emailPattern.MatchString(email)
}

// SanitizePhone strips everything but digits.
func SanitizePhone(phone string) string {
	return nonDigitPattern.ReplaceAllString(phone, "")
}

func ValidPhone(phone string) bool {
	return len(phone) >= 10 && len(phone) <= 15
}

// Customer belongs to a single provider; the same person booking with two
// providers yields two customer rows.
type Customer struct {
	ID         string
	ProviderID string
	Name       string
	Email      string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewCustomer(providerID, name, email, phone string, now time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, NewValidationError("Name must have at least 2 characters", "INVALID_NAME")
	}

	normalizedEmail := NormalizeEmail(email)
	if !ValidEmail(normalizedEmail) {
		return nil, NewValidationError("Invalid email format", "INVALID_EMAIL")
	}

	sanitizedPhone := SanitizePhone(phone)
	if !ValidPhone(sanitizedPhone) {
		return nil, NewValidationError("Invalid phone number format", "INVALID_PHONE")
	}

	return &Customer{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		Name:       name,
		Email:      normalizedEmail,
		Phone:      sanitizedPhone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (c *Customer) UpdateContactInfo(name, email, phone string, now time.Time) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return NewValidationError("Name must have at least 2 characters", "INVALID_NAME")
	}
	normalizedEmail := NormalizeEmail(email)
	if !ValidEmail(normalizedEmail) {
		return NewValidationError("Invalid email format", "INVALID_EMAIL")
	}
	sanitizedPhone := SanitizePhone(phone)
	if !ValidPhone(sanitizedPhone) {
		return NewValidationError("Invalid phone number format", "INVALID_PHONE")
	}

	c.Name = name
	c.Email = normalizedEmail
	c.Phone = sanitizedPhone
	c.UpdatedAt = now
	return nil
}
