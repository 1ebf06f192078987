package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/sangkips/posdelivery-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput is shared by create and update
type CustomerInput struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
	Rank    string
}

func (in *CustomerInput) validate() (enum.CustomerRank, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(in.Phone) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "phone is required"})
	}
	rank, err := enum.ParseCustomerRank(in.Rank)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "rank", Message: err.Error()})
	}
	if len(fieldErrors) > 0 {
		return "", apperror.NewValidationError(fieldErrors)
	}
	return rank, nil
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	rank, err := input.validate()
	if err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:    strings.TrimSpace(input.Name),
		Phone:   strings.TrimSpace(input.Phone),
		Email:   trimmed(input.Email),
		Address: trimmed(input.Address),
		Rank:    rank,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with optional search and rank filter
func (s *CustomerService) ListCustomers(ctx context.Context, params *repository.CustomerFilterParams) (*pagination.PaginatedResult[entity.Customer], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomer replaces a customer's details
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	rank, err := input.validate()
	if err != nil {
		return nil, err
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Email = trimmed(input.Email)
	customer.Address = trimmed(input.Address)
	customer.Rank = rank

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer removes a customer. Past transactions keep their lines and
// lose the customer link. Admin only.
func (s *CustomerService) DeleteCustomer(ctx context.Context, sess session.Session, id uuid.UUID) error {
	if !sess.IsAdmin() {
		return apperror.NewForbiddenError("Only administrators can delete customers")
	}
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}
