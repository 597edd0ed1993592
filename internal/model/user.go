package model

import "time"

// User is an admin account able to view and export bookings.  It mirrors
// the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
}

func (User) CreateTableSQL() string {
    return `
    CREATE TABLE IF NOT EXISTS users (
        id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        name          VARCHAR(120) NOT NULL,
        email         VARCHAR(120) NOT NULL,
        password_hash VARCHAR(255) NOT NULL,
        created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_users_email (email)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token handed to the client is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}

func (RefreshToken) CreateTableSQL() string {
    return `
    CREATE TABLE IF NOT EXISTS refresh_tokens (
        id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        user_id    BIGINT UNSIGNED NOT NULL,
        token_hash CHAR(64) NOT NULL,
        expires_at DATETIME NOT NULL,
        revoked_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_refresh_token_hash (token_hash),
        KEY idx_refresh_user (user_id),
        CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
}
