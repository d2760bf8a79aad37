package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
)

type credentialRequest struct {
	Key string `json:"key"`
}

type credentialResponse struct {
	Available bool   `json:"available"`
	Source    string `json:"source"`
	Mode      string `json:"mode"`
}

// GetCredential tells whether a credential is set, never its value.
func GetCredential(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeCredentialState(w, r, d)
	}
}

// PutCredential checks the key with the reasoning service and stores it
// only when accepted.
func PutCredential(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		key := strings.TrimSpace(req.Key)
		if key == "" {
			writeError(w, http.StatusBadRequest, "key is required")
			return
		}

		if d.Validator != nil {
			if err := d.Validator.Validate(r.Context(), key); err != nil {
				status, msg := validationFailure(err)
				d.Logger.Info("credential rejected", logger.String("kind", reasoning.KindLabel(err)))
				writeError(w, status, msg)
				return
			}
		}

		if err := d.Credentials.Store(r.Context(), key); err != nil {
			d.Logger.Error("failed to store credential", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		d.Logger.Info("🔑 credential stored")
		writeCredentialState(w, r, d)
	}
}

func DeleteCredential(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Credentials.Forget(r.Context()); err != nil {
			d.Logger.Error("failed to forget credential", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeCredentialState(w http.ResponseWriter, r *http.Request, d deps.Deps) {
	_, src, err := d.Credentials.Resolve(r.Context())
	if err != nil && !errors.Is(err, reasoning.ErrMissingCredential) {
		d.Logger.Error("failed to read credential", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	source := string(src)
	if source == "" {
		source = "none"
	}
	writeJSON(w, http.StatusOK, credentialResponse{
		Available: err == nil,
		Source:    source,
		Mode:      d.Manager.Mode(r.Context()),
	})
}

func validationFailure(err error) (int, string) {
	switch {
	case errors.Is(err, reasoning.ErrInvalidCredential):
		return http.StatusUnprocessableEntity, "the reasoning service rejected this key"
	case errors.Is(err, reasoning.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limited while checking the key, try again later"
	case errors.Is(err, reasoning.ErrNetworkFailure):
		return http.StatusBadGateway, "could not reach the reasoning service"
	default:
		return http.StatusBadGateway, "could not check the key: " + err.Error()
	}
}
