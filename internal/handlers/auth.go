package handlers

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"designhub/internal/middleware"
	"designhub/internal/models"
	"designhub/internal/render"
	"designhub/internal/session"
)

// totpIssuer is shown in authenticator apps.
const totpIssuer = "DesignHub"

// UserStore is the subset of store.UserStore the auth handlers use.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// Sessions is implemented by session.Store.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions Sessions
	users    UserStore
	checker  middleware.AdminChecker
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions Sessions, users UserStore, checker middleware.AdminChecker) *Auth {
	return &Auth{
		sessions: sessions,
		users:    users,
		checker:  checker,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

type codeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type loginResponse struct {
	UserID            uuid.UUID `json:"userId"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"displayName"`
	TwoFactorRequired bool      `json:"twoFactorRequired"`
}

type meResponse struct {
	UserID            uuid.UUID `json:"userId"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"displayName"`
	TOTPEnabled       bool      `json:"totpEnabled"`
	TwoFactorRequired bool      `json:"twoFactorRequired"`
	IsAdmin           bool      `json:"isAdmin"`
	CSRFToken         string    `json:"csrfToken"`
}

type setupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
	QRCode     string `json:"qrCode"` // base64 PNG
}

// Login checks credentials and starts a session. Users with 2FA enabled
// must call TwoFAVerify before the session is fully authenticated.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		render.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   !user.TOTPEnabled,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "two_factor", user.TOTPEnabled)
	render.JSON(w, http.StatusOK, loginResponse{
		UserID:            user.ID,
		Email:             user.Email,
		DisplayName:       user.DisplayName,
		TwoFactorRequired: user.TOTPEnabled,
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	render.NoContent(w)
}

// Me describes the current user, including whether they are an admin.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		render.Error(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	isAdmin := false
	if sess.TwoFADone {
		isAdmin, err = a.checker.IsAdmin(r.Context(), user.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	render.JSON(w, http.StatusOK, meResponse{
		UserID:            user.ID,
		Email:             user.Email,
		DisplayName:       user.DisplayName,
		TOTPEnabled:       user.TOTPEnabled,
		TwoFactorRequired: !sess.TwoFADone,
		IsAdmin:           isAdmin,
		CSRFToken:         middleware.CSRFTokenFromCtx(r.Context()),
	})
}

// TwoFASetup generates a new TOTP secret and returns it with a QR code.
// The secret is stored but not enabled until TwoFAEnable confirms a code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		render.Error(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	if user.TOTPEnabled {
		render.Error(w, http.StatusConflict, "two-factor authentication is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		writeError(w, r, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, setupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAEnable confirms a code against the pending secret and turns 2FA on.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		render.Error(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	if user.TOTPEnabled {
		render.Error(w, http.StatusConflict, "two-factor authentication is already enabled")
		return
	}
	if user.TOTPSecret == nil {
		render.Error(w, http.StatusConflict, "two-factor setup has not been started")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		render.FieldError(w, http.StatusBadRequest, "code", "invalid code")
		return
	}

	if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("two-factor enabled", "user_id", user.ID)
	render.NoContent(w)
}

// TwoFAVerify completes login for a user with 2FA enabled.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		render.Error(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	if !user.TOTPEnabled || user.TOTPSecret == nil {
		render.Error(w, http.StatusConflict, "two-factor authentication is not enabled")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		render.FieldError(w, http.StatusBadRequest, "code", "invalid code")
		return
	}

	// A new ID so the pre-2FA cookie cannot be replayed.
	sess.TwoFADone = true
	if _, err := a.sessions.Rotate(r.Context(), w, r, sess); err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w)
}
