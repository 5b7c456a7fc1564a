package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/light-bringer/product-store/internal/app/product/domain"
)

// writeError maps a store error to an HTTP response. Conflict and
// not-found pass through with their domain message; validation failures
// are the caller's fault; everything else is a 500 with a generic body,
// the store having already logged the cause.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsConflict(err):
		h.writeJSON(w, http.StatusConflict, errorBody(err))

	case errors.Is(err, domain.ErrProductNotFound):
		h.writeJSON(w, http.StatusNotFound, errorBody(err))

	case errors.Is(err, domain.ErrUnsupportedFilter):
		h.writeJSON(w, http.StatusBadRequest, errorBody(err))

	case isValidationError(err):
		h.writeJSON(w, http.StatusBadRequest, errorBody(err))

	default:
		h.log.Error().Err(err).Msg("internal error")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
