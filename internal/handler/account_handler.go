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

type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// RegisterRoutes attaches the account routes to the authenticated router.
func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}", h.UpdateAccount).Methods(http.MethodPut)
	router.HandleFunc("/accounts/{id}", h.DeleteAccount).Methods(http.MethodDelete)
	router.HandleFunc("/accounts/{id}/balance", h.GetBalance).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}/deposit", h.Deposit).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/withdraw", h.Withdraw).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/transfers", h.ListAccountTransfers).Methods(http.MethodGet)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.Create(r.Context(), caller, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create account")
		return
	}

	u.WriteJSON(w, http.StatusCreated, models.AccountResponse{
		ID:         account.ID,
		CustomerID: account.CustomerID,
		Balance:    account.Balance,
	})
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	accounts, err := h.accountService.List(r.Context(), caller)
	if err != nil {
		writeServiceError(w, h.logger, err, "list accounts")
		return
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, models.AccountResponse{
			ID:         account.ID,
			CustomerID: account.CustomerID,
			Balance:    account.Balance,
		})
	}
	u.WriteJSON(w, http.StatusOK, responses)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	account, err := h.accountService.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "get account")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.AccountResponse{
		ID:         account.ID,
		CustomerID: account.CustomerID,
		Balance:    account.Balance,
	})
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	var req models.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.Update(r.Context(), caller, mux.Vars(r)["id"], &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "update account")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.AccountResponse{
		ID:         account.ID,
		CustomerID: account.CustomerID,
		Balance:    account.Balance,
	})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	if err := h.accountService.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err, "delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	accountID := mux.Vars(r)["id"]
	balance, err := h.accountService.Balance(r.Context(), caller, accountID)
	if err != nil {
		writeServiceError(w, h.logger, err, "get balance")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.BalanceResponse{
		AccountID: accountID,
		Balance:   balance,
	})
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid deposit request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	accountID := mux.Vars(r)["id"]
	balance, err := h.accountService.Deposit(r.Context(), caller, accountID, req.Amount)
	if err != nil {
		writeServiceError(w, h.logger, err, "deposit")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.DepositResponse{
		AccountID: accountID,
		Balance:   balance,
	})
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid withdraw request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	accountID := mux.Vars(r)["id"]
	balance, err := h.accountService.Withdraw(r.Context(), caller, accountID, req.Amount)
	if err != nil {
		writeServiceError(w, h.logger, err, "withdraw")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.WithdrawResponse{
		AccountID:  accountID,
		NewBalance: balance,
	})
}

func (h *AccountHandler) ListAccountTransfers(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		u.WriteError(w, http.StatusUnauthorized, "missing authenticated caller", "")
		return
	}

	transfers, err := h.accountService.Transfers(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "list account transfers")
		return
	}

	u.WriteJSON(w, http.StatusOK, transfers)
}
