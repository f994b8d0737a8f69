package api

import (
	"encoding/json"
	"net/http"
)

// OwnerPasscodeHeader carries the owner passcode on dashboard requests.
const OwnerPasscodeHeader = "X-Owner-Passcode"

const invalidPasscodeMessage = "Invalid Passcode"

// Login checks a passcode without opening any session: the dashboard keeps
// sending it in OwnerPasscodeHeader.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Service.VerifyPasscode(r.Context(), req.Passcode); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequireOwner rejects requests without the current owner passcode.
func (h *Handler) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.Service.VerifyPasscode(r.Context(), r.Header.Get(OwnerPasscodeHeader)); err != nil {
			writeServiceError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
