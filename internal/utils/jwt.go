package utils // package utils provides helpers for admin token issuing and password hashing

import (
    "crypto/rand"   // secure random bytes for refresh tokens
    "crypto/sha256" // refresh tokens are stored hashed
    "encoding/hex"  // hex encoding of random bytes and digests
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // HS256 access tokens
)

// ErrInvalidToken is returned by ParseAccessToken for any token that is
// malformed, expired, signed with another key or missing its subject.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT plus its expiry.  It is sent as a Bearer
// header on /admin and /api/me requests.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// RefreshToken is the raw opaque token handed to the client.  Only its
// SHA-256 hash is persisted.
type RefreshToken struct {
    Raw string
    Exp time.Time
}

// NewAccessToken signs an HS256 JWT whose subject is the user id.
func NewAccessToken(secret string, userID uint64, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.RegisteredClaims{
        Subject:   strconv.FormatUint(userID, 10),
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(exp),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns the user id in
// its subject claim.  Only HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (uint64, error) {
    var claims jwt.RegisteredClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, ErrInvalidToken
    }
    id, err := strconv.ParseUint(claims.Subject, 10, 64)
    if err != nil || id == 0 {
        return 0, ErrInvalidToken
    }
    return id, nil
}

// NewRefreshToken returns a random 96-char hex token valid for ttlDays.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48)
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token; this is
// the value stored in refresh_tokens.token_hash.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
