package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a provider account: the business owner who defines services and
// availability. The slug is the public booking-page handle.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	BusinessName string
	Slug         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(name, email, phone, businessName, passwordHash string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, NewValidationError("Name must have at least 2 characters", "INVALID_NAME")
	}

	normalizedEmail := NormalizeEmail(email)
	if !ValidEmail(normalizedEmail) {
		return nil, NewValidationError("Invalid email format", "INVALID_EMAIL")
	}

	sanitizedPhone := ""
	if strings.TrimSpace(phone) != "" {
		sanitizedPhone = SanitizePhone(phone)
		if !ValidPhone(sanitizedPhone) {
			return nil, NewValidationError("Invalid phone number format", "INVALID_PHONE")
		}
	}

	businessName = strings.TrimSpace(businessName)
	if err := validateBusinessName(businessName); err != nil {
		return nil, err
	}

	slug := NormalizeSlug(businessName)
	if !ValidSlug(slug) {
		return nil, NewValidationError("Invalid slug format", "INVALID_SLUG")
	}

	return &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalizedEmail,
		Phone:        sanitizedPhone,
		BusinessName: businessName,
		Slug:         slug,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) UpdateProfile(name, email, phone string, now time.Time) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return NewValidationError("Name must have at least 2 characters", "INVALID_NAME")
	}
	normalizedEmail := NormalizeEmail(email)
	if !ValidEmail(normalizedEmail) {
		return NewValidationError("Invalid email format", "INVALID_EMAIL")
	}
	sanitizedPhone := ""
	if strings.TrimSpace(phone) != "" {
		sanitizedPhone = SanitizePhone(phone)
		if !ValidPhone(sanitizedPhone) {
			return NewValidationError("Invalid phone number format", "INVALID_PHONE")
		}
	}

	u.Name = name
	u.Email = normalizedEmail
	u.Phone = sanitizedPhone
	u.UpdatedAt = now
	return nil
}

// UpdateBusiness changes the business name and, optionally, the slug. An
// empty slug regenerates one from the business name; an explicit slug is
// normalized and validated. Uniqueness is the caller's concern.
func (u *User) UpdateBusiness(businessName, slug string, now time.Time) error {
	businessName = strings.TrimSpace(businessName)
	if err := validateBusinessName(businessName); err != nil {
		return err
	}

	if strings.TrimSpace(slug) == "" {
		slug = NormalizeSlug(businessName)
	} else {
		slug = NormalizeSlug(slug)
	}
	if !ValidSlug(slug) {
		return NewValidationError("Invalid slug format", "INVALID_SLUG")
	}

	u.BusinessName = businessName
	u.Slug = slug
	u.UpdatedAt = now
	return nil
}

func (u *User) UpdatePassword(passwordHash string, now time.Time) {
	u.PasswordHash = passwordHash
	u.UpdatedAt = now
}

func validateBusinessName(name string) error {
	if len(name) < 3 || len(name) > 100 {
		return NewValidationError("Business name must have between 3 and 100 characters", "INVALID_BUSINESS_NAME")
	}
	return nil
}
