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

type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

func NewTransferHandler(transferService service.TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// RegisterRoutes attaches the transfer routes to the authenticated router.
func (h *TransferHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transfers", h.CreateTransfer).Methods(http.MethodPost)
	router.HandleFunc("/transfers", h.ListTransfers).Methods(http.MethodGet)
}

func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	var req models.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create transfer request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	transfer, err := h.transferService.Create(r.Context(), caller, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create transfer")
		return
	}

	u.WriteJSON(w, http.StatusCreated, models.TransferResponse{
		ID:            transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        transfer.Amount,
		CreatedAt:     transfer.CreatedAt,
	})
}

func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	transfers, err := h.transferService.List(r.Context(), caller)
	if err != nil {
		writeServiceError(w, h.logger, err, "list transfers")
		return
	}

	responses := make([]models.TransferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		responses = append(responses, models.TransferResponse{
			ID:            transfer.ID,
			FromAccountID: transfer.FromAccountID,
			ToAccountID:   transfer.ToAccountID,
			Amount:        transfer.Amount,
			CreatedAt:     transfer.CreatedAt,
		})
	}
	u.WriteJSON(w, http.StatusOK, responses)
}
