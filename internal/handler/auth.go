package handler

import (
    "context"
    "database/sql"
    "errors"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-booking/internal/config"
    "github.com/iliyamo/tailor-booking/internal/middleware"
    "github.com/iliyamo/tailor-booking/internal/model"
    "github.com/iliyamo/tailor-booking/internal/repository"
    "github.com/iliyamo/tailor-booking/internal/utils"
)

// UserStore is the part of repository.UserRepo used by AuthHandler.
type UserStore interface {
    Create(ctx context.Context, name, email, password string, cost int) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore is the part of repository.TokenRepo used by AuthHandler.
type TokenStore interface {
    StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
    ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthHandler serves account registration and the admin token lifecycle.
type AuthHandler struct {
    Cfg      config.Config
    Users    UserStore
    Tokens   TokenStore
    validate *validator.Validate
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, validate: validator.New()}
}

type registerReq struct {
    Name            string `json:"name" form:"name"`
    Email           string `json:"email" form:"email"`
    Password        string `json:"password" form:"password"`
    ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type loginReq struct {
    Email    string `json:"email" form:"email"`
    Password string `json:"password" form:"password"`
}

type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}

type userPart struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
}

type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

// Register creates an account and signs it in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))

    switch {
    case req.Name == "":
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name is required"})
    case h.validate.Var(req.Email, "required,email") != nil:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid email address"})
    case len(req.Password) < utils.MinPasswordLen:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 6 characters"})
    case req.Password != req.ConfirmPassword:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Passwords do not match"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered"})
        }
        slog.Error("register: create user", "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return h.issue(c, http.StatusCreated, model.User{ID: uid, Name: req.Name, Email: req.Email})
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if errors.Is(err, sql.ErrNoRows) || (err == nil && !utils.VerifyPassword(u.PasswordHash, req.Password)) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
    }
    if err != nil {
        slog.Error("login: load user", "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return h.issue(c, http.StatusOK, u)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is returned.
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
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
    }
    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        slog.Error("refresh: revoke", "user_id", userID, "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return h.issue(c, http.StatusOK, u)
}

// Logout revokes the refresh token in the body, or every token of the
// bearer when the body has none.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    _ = c.Bind(&req)
    raw := strings.TrimSpace(req.RefreshToken)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if raw != "" {
        hash := utils.HashRefreshRaw(raw)
        if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
        }
        return c.NoContent(http.StatusNoContent)
    }

    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if !strings.HasPrefix(auth, "Bearer ") {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
    }
    uid, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer "))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
    }
    if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in account.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return c.JSON(http.StatusOK, userPart{ID: u.ID, Name: u.Name, Email: u.Email})
}

// issue signs an access token, stores a new refresh token and writes both.
func (h *AuthHandler) issue(c echo.Context, status int, u model.User) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    if err := h.Tokens.StoreRefresh(c.Request().Context(), u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        slog.Error("store refresh token", "user_id", u.ID, "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return c.JSON(status, authResp{
        User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
    })
}
