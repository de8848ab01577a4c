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

type StaffService interface {
	RegisterEmployee(ctx context.Context, req *models.RegisterEmployeeRequest) (*models.Employee, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type StaffServiceImpl struct {
	employeeRepo repository.EmployeeRepository
	tokens       *auth.TokenManager
	logger       *slog.Logger
}

func NewStaffService(employeeRepo repository.EmployeeRepository, tokens *auth.TokenManager, logger *slog.Logger) *StaffServiceImpl {
	return &StaffServiceImpl{
		employeeRepo: employeeRepo,
		tokens:       tokens,
		logger:       logger,
	}
}

func (s *StaffServiceImpl) RegisterEmployee(ctx context.Context, req *models.RegisterEmployeeRequest) (*models.Employee, error) {
	if req.Email == "" {
		return nil, errors.NewValidationError("email", "must be non-empty")
	}
	if len(req.Password) < 6 {
		return nil, errors.NewValidationError("password", "must be at least 6 characters")
	}
	role := auth.Role(req.Role)
	if !role.IsStaff() {
		return nil, errors.ErrInvalidRole
	}

	passwordHash, err := auth.HashSecret(req.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		IsActive:     true,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.IsConflict(err) {
			s.logger.Warn("employee already exists", "email", req.Email)
			return nil, err
		}
		s.logger.Error("failed to create employee", "error", err.Error())
		return nil, err
	}

	s.logger.Info("employee registered",
		"employee_id", employee.ID,
		"role", employee.Role,
	)
	return employee, nil
}

// Login verifies staff credentials and issues a token carrying the stored
// role. Inactive employees cannot log in.
func (s *StaffServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	employee, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up employee for login", "error", err.Error())
		return "", err
	}

	if !employee.IsActive || !auth.CheckSecret(password, employee.PasswordHash) {
		return "", errors.ErrInvalidCredentials
	}

	return s.tokens.Issue(employee.ID, auth.Role(employee.Role))
}
