package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/config"
	"github.com/iliyamo/restaurant-reservations/internal/utils"
)

// AuthHandler issues access tokens to the single staff account configured
// through STAFF_USERNAME and STAFF_PASSWORD_HASH.
type AuthHandler struct {
	cfg config.AuthConfig
	now func() time.Time
}

func NewAuthHandler(cfg config.AuthConfig, now func() time.Time) *AuthHandler {
	if now == nil {
		now = time.Now
	}
	return &AuthHandler{cfg: cfg, now: now}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindData(c, &req); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return apperr.Validation("username and password are required.")
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.StaffUsername)) == 1
	// Always run bcrypt so a wrong username costs as much as a wrong password.
	passOK := h.cfg.StaffPasswordHash != "" && utils.VerifyPassword(h.cfg.StaffPasswordHash, req.Password)
	if !userOK || !passOK {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	ttl := time.Duration(h.cfg.AccessTTLMin) * time.Minute
	tok, err := utils.NewAccessToken(h.cfg.JWTSecret, req.Username, utils.RoleStaff, ttl, h.now())
	if err != nil {
		return apperr.Internal(err, "sign access token")
	}
	return respond(c, http.StatusOK, tok)
}
