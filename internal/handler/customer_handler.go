package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rahulnair/bank-backoffice/internal/auth"
	"github.com/rahulnair/bank-backoffice/internal/models"
	"github.com/rahulnair/bank-backoffice/internal/service"
	u "github.com/rahulnair/bank-backoffice/internal/utils"
)

type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

func NewCustomerHandler(customerService service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// RegisterRoutes attaches staff-facing customer management routes to the
// authenticated router.
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/customers", h.CreateCustomer).Methods(http.MethodPost)
	router.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	var req models.RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create customer request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	customer, err := h.customerService.Create(r.Context(), caller, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create customer")
		return
	}

	u.WriteJSON(w, http.StatusCreated, models.CustomerResponse{
		ID:          customer.ID,
		Name:        customer.Name,
		PhoneNumber: customer.PhoneNumber,
	})
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	customers, err := h.customerService.List(r.Context(), caller)
	if err != nil {
		writeServiceError(w, h.logger, err, "list customers")
		return
	}

	responses := make([]models.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, models.CustomerResponse{
			ID:          customer.ID,
			Name:        customer.Name,
			PhoneNumber: customer.PhoneNumber,
		})
	}
	u.WriteJSON(w, http.StatusOK, responses)
}
