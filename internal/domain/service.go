package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minServiceDuration = 15
	maxServiceDuration = 480
)

// Service is something a provider offers for booking. DurationInMinutes
// drives slot generation; PriceInCents avoids floating-point money.
type Service struct {
	ID                string
	ProviderID        string
	Name              string
	Description       string
	DurationInMinutes int
	PriceInCents      int
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewService(providerID, name, description string, durationInMinutes, priceInCents int, now time.Time) (*Service, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := validateServiceDetails(name, description, durationInMinutes, priceInCents); err != nil {
		return nil, err
	}

	return &Service{
		ID:                uuid.NewString(),
		ProviderID:        providerID,
		Name:              name,
		Description:       description,
		DurationInMinutes: durationInMinutes,
		PriceInCents:      priceInCents,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (s *Service) UpdateDetails(name, description string, durationInMinutes, priceInCents int, now time.Time) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := validateServiceDetails(name, description, durationInMinutes, priceInCents); err != nil {
		return err
	}

	s.Name = name
	s.Description = description
	s.DurationInMinutes = durationInMinutes
	s.PriceInCents = priceInCents
	s.UpdatedAt = now
	return nil
}

func (s *Service) Activate(now time.Time) {
	s.IsActive = true
	s.UpdatedAt = now
}

func (s *Service) Deactivate(now time.Time) {
	s.IsActive = false
	s.UpdatedAt = now
}

func validateServiceDetails(name, description string, durationInMinutes, priceInCents int) error {
	if len(name) < 2 || len(name) > 100 {
		return NewValidationError("Service name must have between 2 and 100 characters", "INVALID_SERVICE_NAME")
	}
	if len(description) > 500 {
		return NewValidationError("Description must have at most 500 characters", "INVALID_SERVICE_DESCRIPTION")
	}
	if durationInMinutes < minServiceDuration || durationInMinutes > maxServiceDuration {
		return NewValidationError("Service duration must be between 15 and 480 minutes", "INVALID_SERVICE_DURATION")
	}
	if priceInCents < 0 {
		return NewValidationError("Service price cannot be negative", "INVALID_SERVICE_PRICE")
	}
	return nil
}
