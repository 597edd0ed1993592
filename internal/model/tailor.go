package model

import "time"

// Tailor is a bookable service provider stored in the `tailors` table.
// Specialty and ExperienceYears are optional columns and therefore
// pointers.  Tailors are created by the seeding process and only read by
// the booking flow.
type Tailor struct {
    ID              uint64    // tailors.id
    Name            string    // tailors.name
    Email           string    // tailors.email (unique)
    Phone           string    // tailors.phone
    Specialty       *string   // tailors.specialty (nullable)
    ExperienceYears *int      // tailors.experience_years (nullable)
    CreatedAt       time.Time // tailors.created_at
}

// CreateTableSQL returns the DDL for the tailors table.
func (Tailor) CreateTableSQL() string {
    return `
    CREATE TABLE IF NOT EXISTS tailors (
        id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        name             VARCHAR(100) NOT NULL,
        email            VARCHAR(120) NOT NULL,
        phone            VARCHAR(20)  NOT NULL,
        experience_years INT NULL,
        specialty        VARCHAR(200) NULL,
        created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_tailors_email (email)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
}
