package handler

import (
	"log/slog"
	"net/http"

	"github.com/rahulnair/bank-backoffice/internal/errors"
	u "github.com/rahulnair/bank-backoffice/internal/utils"
)

// writeServiceError maps the domain error taxonomy onto HTTP status codes.
// Every handler goes through this one switch so no route drifts from the
// taxonomy.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "not found", err.Error())
	case errors.IsInsufficientFunds(err):
		u.WriteError(w, http.StatusBadRequest, "insufficient funds", "source account does not have enough funds")
	case errors.IsInvalidArgument(err):
		u.WriteError(w, http.StatusBadRequest, "invalid argument", err.Error())
	case errors.IsUnauthenticated(err):
		u.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.IsForbidden(err):
		u.WriteError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.IsConflict(err):
		u.WriteError(w, http.StatusConflict, "conflict", err.Error())
	default:
		logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
