package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"forgefit/internal/auth"
	"forgefit/internal/db"
	"forgefit/internal/models"
)

const (
	authCookieName   = "auth_token"
	authCookieMaxAge = 7 * 24 * time.Hour
)

// linkInvalidMessage is the single failure surfaced for any verification
// miss. Unknown, expired, and already-consumed tokens are deliberately not
// distinguished so responses cannot be used as an oracle.
const linkInvalidMessage = "This link is expired or invalid"

type AuthHandler struct {
	users         UserStore
	links         MagicLinkStore
	jwtService    *auth.JWTService
	linkService   *auth.MagicLinkService
	mailer        LinkMailer
	baseURL       string
	secureCookies bool
}

func NewAuthHandler(
	users UserStore,
	links MagicLinkStore,
	jwtService *auth.JWTService,
	linkService *auth.MagicLinkService,
	mailer LinkMailer,
	baseURL string,
	secureCookies bool,
) *AuthHandler {
	return &AuthHandler{
		users:         users,
		links:         links,
		jwtService:    jwtService,
		linkService:   linkService,
		mailer:        mailer,
		baseURL:       baseURL,
		secureCookies: secureCookies,
	}
}

type SendLinkRequest struct {
	Email string `json:"email" validate:"required,max=254"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=100"`
	Mode  string `json:"mode" validate:"required,oneof=login register"`
}

type SendLinkResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
}

// POST /api/auth/send-link
func (h *AuthHandler) SendLink(w http.ResponseWriter, r *http.Request) {
	var req SendLinkRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := requestValidator.Var(req.Email, "required,email,max=254"); err != nil {
		badRequest(w, "invalid email format")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Mode == models.ModeRegister {
		if req.Name == "" {
			badRequest(w, "name is required for registration")
			return
		}

		_, err := h.users.FindByEmail(r.Context(), req.Email)
		if err == nil {
			conflict(w, "An account with this email already exists")
			return
		}
		if !errors.Is(err, db.ErrNotFound) {
			slog.Error("error checking existing user", "error", err)
			internalError(w)
			return
		}
	}

	token, err := h.linkService.GenerateToken()
	if err != nil {
		slog.Error("error generating link token", "error", err)
		internalError(w)
		return
	}
	sessionID := h.linkService.GenerateSessionID()

	link, err := h.links.Create(r.Context(), token, sessionID, req.Email, req.Mode, req.Name, h.linkService.ExpiresAt())
	if err != nil {
		slog.Error("error storing magic link", "error", err)
		internalError(w)
		return
	}

	verifyURL := h.requestOrigin(r) + "/auth/verify?token=" + url.QueryEscape(token)
	if err := h.mailer.SendMagicLink(req.Email, verifyURL, h.linkService.TTL()); err != nil {
		// The link record stays behind unusable; the client recovers by
		// requesting a new one.
		slog.Error("error sending magic link email", "error", err, "link_id", link.ID)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, SendLinkResponse{
		Success:   true,
		SessionID: sessionID,
	})
}

// requestOrigin resolves the origin the emailed link should point at:
// the Origin header, then the Referer, then the configured base URL.
func (h *AuthHandler) requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
		return strings.TrimRight(origin, "/")
	}
	if referer := r.Header.Get("Referer"); referer != "" {
		if u, err := url.Parse(referer); err == nil && u.Scheme != "" && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}
	return strings.TrimRight(h.baseURL, "/")
}

type VerifyLinkRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyLinkResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// POST /api/auth/verify-link
func (h *AuthHandler) VerifyLink(w http.ResponseWriter, r *http.Request) {
	var req VerifyLinkRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	link, err := h.links.Consume(r.Context(), req.Token)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusBadRequest, ErrCodeLinkInvalid, linkInvalidMessage)
		return
	}
	if err != nil {
		slog.Error("error consuming magic link", "error", err)
		internalError(w)
		return
	}

	user, err := h.resolveUser(r, link)
	if err != nil {
		slog.Error("error resolving user", "error", err, "link_id", link.ID)
		internalError(w)
		return
	}

	sessionToken, _, err := h.jwtService.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		slog.Error("error signing session token", "error", err)
		internalError(w)
		return
	}

	if err := h.links.SetIssuedAuthToken(r.Context(), link.ID, sessionToken); err != nil {
		slog.Error("error storing issued auth token", "error", err, "link_id", link.ID)
		internalError(w)
		return
	}

	h.setAuthCookie(w, sessionToken)

	writeJSON(w, http.StatusOK, VerifyLinkResponse{
		Token: sessionToken,
		User:  user,
	})
}

// resolveUser finds or creates the account for a verified link. Register
// mode falls back to a plain login when the account appeared between
// issuance and verification; login mode creates the account on first
// verification (passwordless signup-via-login).
func (h *AuthHandler) resolveUser(r *http.Request, link *models.MagicLink) (*models.User, error) {
	user, err := h.users.FindByEmail(r.Context(), link.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	user, err = h.users.Create(r.Context(), link.Name, link.Email)
	if errors.Is(err, db.ErrDuplicate) {
		// Lost a creation race; the account exists now.
		return h.users.FindByEmail(r.Context(), link.Email)
	}
	return user, err
}

type CheckSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type CheckSessionResponse struct {
	Verified bool   `json:"verified"`
	Token    string `json:"token,omitempty"`
}

// POST /api/auth/check-session
//
// Lets the client that requested the link discover, by polling, whether the
// link was opened and verified in another browser or device.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	var req CheckSessionRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	link, err := h.links.FindBySessionID(r.Context(), req.SessionID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Unknown session")
		return
	}
	if err != nil {
		slog.Error("error finding magic link by session", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, CheckSessionResponse{
		Verified: link.IssuedAuthToken != "",
		Token:    link.IssuedAuthToken,
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r)
	if userID == "" {
		unauthorized(w, "User not found in context")
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "User not found")
		return
	}
	if err != nil {
		slog.Error("error finding user", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(authCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
