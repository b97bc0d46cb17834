// Package catalog manages what a provider offers (services) and who books
// with them (customers).
package catalog

import (
	"context"

	"github.com/agendly/agendly/internal/domain"
)

type Catalog struct {
	services     domain.ServiceRepository
	customers    domain.CustomerRepository
	appointments domain.AppointmentRepository
	now          domain.Clock
}

func NewCatalog(
	services domain.ServiceRepository,
	customers domain.CustomerRepository,
	appointments domain.AppointmentRepository,
	now domain.Clock,
) *Catalog {
	if now == nil {
		now = domain.SystemClock
	}
	return &Catalog{
		services:     services,
		customers:    customers,
		appointments: appointments,
		now:          now,
	}
}

type ServiceInput struct {
	Name              string
	Description       string
	DurationInMinutes int
	PriceInCents      int
	IsActive          *bool
}

func (c *Catalog) CreateService(ctx context.Context, providerID string, in ServiceInput) (*domain.Service, error) {
	service, err := domain.NewService(providerID, in.Name, in.Description, in.DurationInMinutes, in.PriceInCents, c.now())
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil && !*in.IsActive {
		service.Deactivate(c.now())
	}
	if err := c.services.Save(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (c *Catalog) UpdateService(ctx context.Context, providerID, serviceID string, in ServiceInput) (*domain.Service, error) {
	service, err := c.getOwnedService(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}

	now := c.now()
	if err := service.UpdateDetails(in.Name, in.Description, in.DurationInMinutes, in.PriceInCents, now); err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		if *in.IsActive {
			service.Activate(now)
		} else {
			service.Deactivate(now)
		}
	}
	if err := c.services.Save(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (c *Catalog) ListServices(ctx context.Context, providerID string, activeOnly bool) ([]*domain.Service, error) {
	if activeOnly {
		return c.services.FindActiveByProviderID(ctx, providerID)
	}
	return c.services.FindByProviderID(ctx, providerID)
}

// DeleteService removes a service that no appointment has ever referenced.
// History wins over deletion: once booked against, a service can only be
// deactivated.
func (c *Catalog) DeleteService(ctx context.Context, providerID, serviceID string) error {
	service, err := c.getOwnedService(ctx, providerID, serviceID)
	if err != nil {
		return err
	}

	referenced, err := c.appointments.ExistsByServiceID(ctx, service.ID)
	if err != nil {
		return err
	}
	if referenced {
		return domain.NewBusinessRuleError(
			"Cannot delete a service with appointments; deactivate it instead",
			"SERVICE_HAS_APPOINTMENTS",
		)
	}
	return c.services.Delete(ctx, service.ID)
}

func (c *Catalog) ListCustomers(ctx context.Context, providerID string) ([]*domain.Customer, error) {
	return c.customers.FindByProvider(ctx, providerID)
}

func (c *Catalog) UpdateCustomer(ctx context.Context, providerID, customerID, name, email, phone string) (*domain.Customer, error) {
	customer, err := c.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.ProviderID != providerID {
		return nil, domain.NewNotFoundError("Customer not found", "CUSTOMER_NOT_FOUND")
	}

	if err := customer.UpdateContactInfo(name, email, phone, c.now()); err != nil {
		return nil, err
	}
	if err := c.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (c *Catalog) getOwnedService(ctx context.Context, providerID, serviceID string) (*domain.Service, error) {
	service, err := c.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil || service.ProviderID != providerID {
		return nil, domain.NewNotFoundError("Service not found", "SERVICE_NOT_FOUND")
	}
	return service, nil
}
