package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eventspark/auth-service/internal/common"
)

// Error types rendered in response bodies.
const (
	errTypeAuthentication = "AuthenticationFailed"
	errTypeDuplicate      = "DuplicateCredential"
	errTypeNotFound       = "NotFound"
	errTypeValidation     = "ValidationFailed"
	errTypeUnknown        = "UnknownError"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type changeEmailRequest struct {
	OldEmail string `json:"oldEmail"`
	NewEmail string `json:"newEmail"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type responseBody struct {
	Result any        `json:"result,omitempty"`
	Error  *errorBody `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeValidationError(w, "email and password are required")
		return
	}

	result, err := s.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setRefreshCookie(w, result.RefreshToken)
	s.writeResult(w, loginResponse{Token: result.AccessToken, Expires: result.ExpiresMs})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		s.writeErrorBody(w, http.StatusUnauthorized, errTypeAuthentication, "Missing refresh token")
		return
	}

	result, err := s.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setRefreshCookie(w, result.RefreshToken)
	s.writeResult(w, loginResponse{Token: result.AccessToken, Expires: result.ExpiresMs})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := s.service.Logout(r.Context(), cookie.Value); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	// the cookie is cleared even when no session existed
	s.clearRefreshCookie(w)
	s.writeResult(w, true)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeValidationError(w, "email and password are required")
		return
	}

	if err := s.service.Register(r.Context(), req.Email, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, true)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.NewPassword == "" {
		s.writeValidationError(w, "email and newPassword are required")
		return
	}

	if err := s.service.ChangePassword(r.Context(), req.Email, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, true)
}

func (s *Server) handleChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req changeEmailRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.OldEmail == "" || req.NewEmail == "" {
		s.writeValidationError(w, "oldEmail and newEmail are required")
		return
	}

	if err := s.service.ChangeEmail(r.Context(), req.OldEmail, req.NewEmail); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, true)
}

// --- helpers ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeValidationError(w, "invalid request body")
		return false
	}
	return true
}

func (s *Server) writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(responseBody{Result: result})
}

func (s *Server) writeValidationError(w http.ResponseWriter, msg string) {
	s.writeErrorBody(w, http.StatusBadRequest, errTypeValidation, msg)
}

// writeError maps domain errors to statuses. Infrastructure errors are
// logged server-side and rendered without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case common.IsAuthenticationFailed(err):
		s.writeErrorBody(w, http.StatusUnauthorized, errTypeAuthentication, err.Error())
	case errors.Is(err, common.ErrorDuplicate):
		s.writeErrorBody(w, http.StatusConflict, errTypeDuplicate, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		s.writeErrorBody(w, http.StatusNotFound, errTypeNotFound, err.Error())
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		s.writeErrorBody(w, http.StatusInternalServerError, errTypeUnknown, "internal error")
	}
}

func (s *Server) writeErrorBody(w http.ResponseWriter, status int, errType, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseBody{Error: &errorBody{Type: errType, Message: msg}})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  time.Now().Add(s.refreshValidity),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
