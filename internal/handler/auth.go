package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/config"
	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/utils"
	"github.com/Straver00/Chivas-travel-api/internal/validation"
)

// AuthHandler bundles dependencies for registration and session endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Correo          string `json:"correo"`
	Documento       string `json:"documento"`
	Nombre          string `json:"nombre"`
	Contacto        string `json:"contacto"`
	EPS             string `json:"eps"`
	FechaNacimiento string `json:"fecha_nacimiento"` // YYYY-MM-DD
	Password        string `json:"password"`
}
type loginReq struct {
	Correo   string `json:"correo"`
	Subtipo  string `json:"subtipo"` // optional, defaults to client
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID      uint64 `json:"id"`
	Correo  string `json:"correo"`
	Nombre  string `json:"nombre"`
	Subtipo string `json:"subtipo"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates a client account and returns a token pair immediately.
// Admin accounts are provisioned out of band, never through this endpoint.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Correo = strings.ToLower(strings.TrimSpace(req.Correo))

	if err := validation.Correo(req.Correo); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validation.Documento(req.Documento); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validation.FullName(req.Nombre); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validation.Phone(req.Contacto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	birth, err := validation.MayorDeEdad(req.FechaNacimiento)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validation.Password(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, model.User{
		Correo:          req.Correo,
		Documento:       req.Documento,
		Nombre:          req.Nombre,
		Contacto:        req.Contacto,
		EPS:             req.EPS,
		FechaNacimiento: &birth,
		Subtipo:         model.SubtypeClient,
	}, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "el correo ya está registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return h.issuePair(c, http.StatusCreated, uid, req.Correo, req.Nombre, model.SubtypeClient)
}

// RegisterAdmin provisions a staff account (subtipo A). Reachable only by an
// existing admin; no token pair is issued, the new admin logs in themselves.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Correo = strings.ToLower(strings.TrimSpace(req.Correo))

	if err := validation.Correo(req.Correo); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validation.Documento(req.Documento); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validation.FullName(req.Nombre); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validation.Password(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, model.User{
		Correo:    req.Correo,
		Documento: req.Documento,
		Nombre:    req.Nombre,
		Contacto:  req.Contacto,
		Subtipo:   model.SubtypeAdmin,
	}, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "el correo ya está registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": uid, "subtipo": model.SubtypeAdmin})
}

// Login verifies credentials and returns a new token pair. Which account
// subtypes may log in is deployment policy (LOGIN_SUBTYPES); guests have no
// password and can never pass.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Correo = strings.ToLower(strings.TrimSpace(req.Correo))
	if req.Correo == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "correo/password required"})
	}
	subtipo := strings.ToUpper(strings.TrimSpace(req.Subtipo))
	if subtipo == "" {
		subtipo = model.SubtypeClient
	}
	if !h.Cfg.LoginSubtypes[subtipo] {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "este tipo de cuenta no puede iniciar sesión"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByCorreoSubtipo(ctx, req.Correo, subtipo)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issuePair(c, http.StatusOK, u.ID, u.Correo, u.Nombre, u.Subtipo)
}

// Refresh validates a refresh token by hash, revokes it, and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	return h.issuePair(c, http.StatusOK, u.ID, u.Correo, u.Nombre, u.Subtipo)
}

// Logout revokes either the presented refresh token or, without a body,
// every active token of the authenticated user.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var req refreshReq
	if err := c.Bind(&req); err == nil && strings.TrimSpace(req.RefreshToken) != "" {
		_ = h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken)))
		return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
	}

	uid := middleware.CurrentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) issuePair(c echo.Context, status int, uid uint64, correo, nombre, subtipo string) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, subtipo, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(status, authResp{
		User:    userPart{ID: uid, Correo: correo, Nombre: nombre, Subtipo: subtipo},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}
