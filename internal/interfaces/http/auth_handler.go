package httpinterface

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pasta-science/marketd/internal/core/application/auth"
)

type requestMessageRequest struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
	Network string `json:"network"`
}

type verifyRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	Network   string `json:"network"`
}

type verifyResponse struct {
	Session *auth.Session `json:"session"`
	Token   string        `json:"token"`
}

func (s *service) handleRequestMessage(w http.ResponseWriter, r *http.Request) {
	var req requestMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidBody)
		return
	}

	msg, err := s.opts.AuthSvc.RequestMessage(
		r.Context(), req.Address, req.Chain, req.Network,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *service) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidBody)
		return
	}

	session, token, err := s.opts.AuthSvc.Verify(
		r.Context(), req.Message, req.Signature, req.Network,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(session.ExpiresAt, 0),
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, verifyResponse{session, token})
}

func (s *service) handleSignout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, signinPath, http.StatusSeeOther)
}
