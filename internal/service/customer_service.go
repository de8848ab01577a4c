package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rahulnair/bank-backoffice/internal/auth"
	"github.com/rahulnair/bank-backoffice/internal/errors"
	"github.com/rahulnair/bank-backoffice/internal/models"
	"github.com/rahulnair/bank-backoffice/internal/repository"
)

type CustomerService interface {
	Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.Customer, error)
	Login(ctx context.Context, phoneNumber, pin string) (string, error)
	Create(ctx context.Context, caller auth.Caller, req *models.RegisterCustomerRequest) (*models.Customer, error)
	List(ctx context.Context, caller auth.Caller) ([]*models.Customer, error)
}

type CustomerServiceImpl struct {
	customerRepo repository.CustomerRepository
	tokens       *auth.TokenManager
	logger       *slog.Logger
}

func NewCustomerService(customerRepo repository.CustomerRepository, tokens *auth.TokenManager, logger *slog.Logger) *CustomerServiceImpl {
	return &CustomerServiceImpl{
		customerRepo: customerRepo,
		tokens:       tokens,
		logger:       logger,
	}
}

// Register is customer self-registration; phone number is the login handle
// and must be unique.
func (s *CustomerServiceImpl) Register(ctx context.Context, req *models.RegisterCustomerRequest) (*models.Customer, error) {
	if err := validateCustomerRequest(req); err != nil {
		return nil, err
	}

	pinHash, err := auth.HashSecret(req.Pin)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:          uuid.New().String(),
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		PinHash:     pinHash,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.IsConflict(err) {
			s.logger.Warn("registration rejected, phone already registered",
				"phone_number", req.PhoneNumber,
			)
			return nil, err
		}
		s.logger.Error("failed to create customer", "error", err.Error())
		return nil, err
	}

	s.logger.Info("customer registered", "customer_id", customer.ID)
	return customer, nil
}

// Login verifies the phone/PIN pair and issues a customer-role token.
func (s *CustomerServiceImpl) Login(ctx context.Context, phoneNumber, pin string) (string, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up customer for login", "error", err.Error())
		return "", err
	}

	if customer.PinHash == "" || !auth.CheckSecret(pin, customer.PinHash) {
		return "", errors.ErrInvalidCredentials
	}

	return s.tokens.Issue(customer.ID, auth.RoleCustomer)
}

// Create is the staff-side customer creation path.
func (s *CustomerServiceImpl) Create(ctx context.Context, caller auth.Caller, req *models.RegisterCustomerRequest) (*models.Customer, error) {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return nil, err
	}
	return s.Register(ctx, req)
}

func (s *CustomerServiceImpl) List(ctx context.Context, caller auth.Caller) ([]*models.Customer, error) {
	if err := auth.RequireRole(caller, auth.RoleAdmin, auth.RoleEmployee); err != nil {
		return nil, err
	}
	return s.customerRepo.List(ctx)
}

func validateCustomerRequest(req *models.RegisterCustomerRequest) error {
	if req.Name == "" {
		return errors.NewValidationError("name", "must be non-empty")
	}
	if req.PhoneNumber == "" {
		return errors.NewValidationError("phone_number", "must be non-empty")
	}
	if req.Pin == "" {
		return errors.NewValidationError("pin", "must be non-empty")
	}
	return nil
}
