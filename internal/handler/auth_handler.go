package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rahulnair/bank-backoffice/internal/models"
	"github.com/rahulnair/bank-backoffice/internal/service"
	u "github.com/rahulnair/bank-backoffice/internal/utils"
)

// AuthHandler serves the unauthenticated login and registration routes for
// both staff and customers.
type AuthHandler struct {
	staffService    service.StaffService
	customerService service.CustomerService
	logger          *slog.Logger
}

func NewAuthHandler(staffService service.StaffService, customerService service.CustomerService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		staffService:    staffService,
		customerService: customerService,
		logger:          logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register/employee", h.RegisterEmployee).Methods(http.MethodPost)
	router.HandleFunc("/auth/token", h.StaffLogin).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	router.HandleFunc("/customer/auth/register", h.RegisterCustomer).Methods(http.MethodPost)
	router.HandleFunc("/customer/auth/login", h.CustomerLogin).Methods(http.MethodPost)
}

func (h *AuthHandler) RegisterEmployee(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid employee registration request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	employee, err := h.staffService.RegisterEmployee(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "register employee")
		return
	}

	u.WriteJSON(w, http.StatusCreated, models.EmployeeResponse{
		ID:       employee.ID,
		Email:    employee.Email,
		Role:     employee.Role,
		IsActive: employee.IsActive,
	})
}

func (h *AuthHandler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var req models.StaffLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid staff login request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	token, err := h.staffService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err, "staff login")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout is stateless. Tokens are not tracked server side, so the client is
// told to discard its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u.WriteJSON(w, http.StatusOK, models.MessageResponse{
		Message: "Logged out. Please remove token on client.",
	})
}

func (h *AuthHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid customer registration request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	customer, err := h.customerService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "register customer")
		return
	}

	u.WriteJSON(w, http.StatusCreated, models.CustomerResponse{
		ID:          customer.ID,
		Name:        customer.Name,
		PhoneNumber: customer.PhoneNumber,
	})
}

func (h *AuthHandler) CustomerLogin(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid customer login request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	token, err := h.customerService.Login(r.Context(), req.PhoneNumber, req.Pin)
	if err != nil {
		writeServiceError(w, h.logger, err, "customer login")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
