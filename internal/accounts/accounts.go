// Package accounts manages provider accounts: registration, login, and
// profile management. Passwords are bcrypt-hashed; sessions are stateless
// JWTs issued by TokenManager.
package accounts

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/agendly/agendly/internal/domain"
)

type Service struct {
	users domain.UserRepository
	now   domain.Clock
}

func NewService(users domain.UserRepository, now domain.Clock) *Service {
	if now == nil {
		now = domain.SystemClock
	}
	return &Service{users: users, now: now}
}

type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	BusinessName string
	Password     string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("Password must have at least 8 characters", "INVALID_PASSWORD")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(in.Name, in.Email, in.Phone, in.BusinessName, string(hash), s.now())
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewBusinessRuleError("Email is already in use", "EMAIL_ALREADY_IN_USE")
	}

	taken, err := s.users.ExistsBySlug(ctx, user.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewBusinessRuleError("Slug is already in use", "SLUG_ALREADY_IN_USE")
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and returns the user. Unknown email and
// wrong password produce the same error, so callers cannot probe for
// registered addresses.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("Invalid email or password", "INVALID_CREDENTIALS")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.NewUnauthorizedError("Invalid email or password", "INVALID_CREDENTIALS")
	}
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found", "USER_NOT_FOUND")
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID, name, email, phone string) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	normalized := domain.NormalizeEmail(email)
	if normalized != user.Email {
		existing, err := s.users.FindByEmail(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.NewBusinessRuleError("Email is already in use", "EMAIL_ALREADY_IN_USE")
		}
	}

	if err := user.UpdateProfile(name, email, phone, s.now()); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdateBusinessProfile(ctx context.Context, userID, businessName, slug string) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	previousSlug := user.Slug
	if err := user.UpdateBusiness(businessName, slug, s.now()); err != nil {
		return nil, err
	}
	if user.Slug != previousSlug {
		taken, err := s.users.ExistsBySlug(ctx, user.Slug)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.NewBusinessRuleError("Slug is already in use", "SLUG_ALREADY_IN_USE")
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProviderBySlug resolves the public booking-page handle. Lookup is
// case-insensitive because slugs are stored normalized.
func (s *Service) GetProviderBySlug(ctx context.Context, slug string) (*domain.User, error) {
	user, err := s.users.FindBySlug(ctx, domain.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Provider not found", "PROVIDER_NOT_FOUND")
	}
	return user, nil
}
