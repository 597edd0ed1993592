package handler

import (
    "context"
    "database/sql"
    "encoding/json"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/tailor-booking/internal/config"
    "github.com/iliyamo/tailor-booking/internal/middleware"
    "github.com/iliyamo/tailor-booking/internal/model"
    "github.com/iliyamo/tailor-booking/internal/repository"
    "github.com/iliyamo/tailor-booking/internal/utils"
)

var authCfg = config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}

func TestRegister(t *testing.T) {
    users := &mockUsers{createFn: func(ctx context.Context, name, email, password string, cost int) (uint64, error) {
        assert.Equal(t, "demo@customfit.test", email)
        assert.Equal(t, bcrypt.MinCost, cost)
        return 9, nil
    }}
    tokens := &mockTokens{}
    h := NewAuthHandler(authCfg, users, tokens)

    rec, c := jsonRequest(http.MethodPost, "/api/auth/register",
        `{"name":"Demo","email":" Demo@CustomFit.test ","password":"demo123","confirm_password":"demo123"}`)
    require.NoError(t, h.Register(c))
    assert.Equal(t, http.StatusCreated, rec.Code)

    var resp authResp
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, uint64(9), resp.User.ID)
    id, err := utils.ParseAccessToken(authCfg.JWTSecret, resp.Access.Token)
    require.NoError(t, err)
    assert.Equal(t, uint64(9), id)
    assert.Equal(t, []string{utils.HashRefreshRaw(resp.Refresh.Token)}, tokens.stored)
}

func TestRegister_Rejects(t *testing.T) {
    cases := map[string]struct {
        body string
        code int
        msg  string
    }{
        "bad email":    {`{"name":"A","email":"nope","password":"secret1","confirm_password":"secret1"}`, 400, "Invalid email address"},
        "short":        {`{"name":"A","email":"a@b.com","password":"abc","confirm_password":"abc"}`, 400, "Password must be at least 6 characters"},
        "mismatch":     {`{"name":"A","email":"a@b.com","password":"secret1","confirm_password":"secret2"}`, 400, "Passwords do not match"},
        "missing name": {`{"email":"a@b.com","password":"secret1","confirm_password":"secret1"}`, 400, "Name is required"},
        "duplicate":    {`{"name":"A","email":"taken@b.com","password":"secret1","confirm_password":"secret1"}`, 409, "Email already registered"},
    }
    users := &mockUsers{createFn: func(ctx context.Context, name, email, password string, cost int) (uint64, error) {
        return 0, repository.ErrEmailExists
    }}
    for name, tc := range cases {
        t.Run(name, func(t *testing.T) {
            rec, c := jsonRequest(http.MethodPost, "/api/auth/register", tc.body)
            require.NoError(t, NewAuthHandler(authCfg, users, &mockTokens{}).Register(c))
            assert.Equal(t, tc.code, rec.Code)
            assert.Contains(t, rec.Body.String(), tc.msg)
        })
    }
}

func TestLogin(t *testing.T) {
    hash, err := utils.HashPassword("password123", bcrypt.MinCost)
    require.NoError(t, err)
    users := &mockUsers{getByEmailFn: func(ctx context.Context, email string) (model.User, error) {
        if email != "test@example.com" {
            return model.User{}, sql.ErrNoRows
        }
        return model.User{ID: 1, Name: "Test User", Email: email, PasswordHash: hash}, nil
    }}
    h := NewAuthHandler(authCfg, users, &mockTokens{})

    rec, c := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"TEST@example.com","password":"password123"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    for _, body := range []string{
        `{"email":"test@example.com","password":"wrong"}`,
        `{"email":"ghost@example.com","password":"password123"}`,
    } {
        rec, c = jsonRequest(http.MethodPost, "/api/auth/login", body)
        require.NoError(t, h.Login(c))
        assert.Equal(t, http.StatusUnauthorized, rec.Code)
        assert.JSONEq(t, `{"error":"Invalid email or password"}`, rec.Body.String())
    }
}

func TestRefresh_RotatesToken(t *testing.T) {
    tokens := &mockTokens{validateFn: func(ctx context.Context, hash string) (uint64, error) {
        if hash == utils.HashRefreshRaw("old") {
            return 4, nil
        }
        return 0, repository.ErrInvalidRefresh
    }}
    users := &mockUsers{getByIDFn: func(ctx context.Context, id uint64) (model.User, error) {
        return model.User{ID: id, Email: "a@b.com"}, nil
    }}
    h := NewAuthHandler(authCfg, users, tokens)

    rec, c := jsonRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"old"}`)
    require.NoError(t, h.Refresh(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, []string{utils.HashRefreshRaw("old")}, tokens.revoked)
    assert.Len(t, tokens.stored, 1)

    rec, c = jsonRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"unknown"}`)
    require.NoError(t, h.Refresh(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_AllSessionsWithBearer(t *testing.T) {
    tokens := &mockTokens{}
    h := NewAuthHandler(authCfg, &mockUsers{}, tokens)
    access, err := utils.NewAccessToken(authCfg.JWTSecret, 6, 5)
    require.NoError(t, err)

    rec, c := jsonRequest(http.MethodPost, "/api/auth/logout", `{}`)
    c.Request().Header.Set("Authorization", "Bearer "+access.Token)
    require.NoError(t, h.Logout(c))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.Equal(t, []uint64{6}, tokens.revokedAll)
}

func TestLogout_NothingToRevoke(t *testing.T) {
    rec, c := jsonRequest(http.MethodPost, "/api/auth/logout", `{}`)
    require.NoError(t, NewAuthHandler(authCfg, &mockUsers{}, &mockTokens{}).Logout(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
    users := &mockUsers{getByIDFn: func(ctx context.Context, id uint64) (model.User, error) {
        return model.User{ID: id, Name: "Demo", Email: "demo@customfit.test"}, nil
    }}
    rec, c := jsonRequest(http.MethodGet, "/api/me", "")
    c.Set(middleware.ContextUserID, uint64(3))
    require.NoError(t, NewAuthHandler(authCfg, users, &mockTokens{}).Me(c))
    assert.JSONEq(t, `{"id":3,"name":"Demo","email":"demo@customfit.test"}`, rec.Body.String())

    rec, c = jsonRequest(http.MethodGet, "/api/me", "")
    require.NoError(t, NewAuthHandler(authCfg, users, &mockTokens{}).Me(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
