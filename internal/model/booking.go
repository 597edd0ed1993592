package model

import "time"

// Layouts used wherever bookings are rendered as text (JSON, CSV, XLSX).
const (
    DateLayout      = "2006-01-02"
    TimeLayout      = "15:04"
    TimestampLayout = "2006-01-02 15:04:05"
)

// Measurements groups the four body measurements taken for a garment.
// Values are stored as DECIMAL(5,2).
type Measurements struct {
    Chest  float64
    Waist  float64
    Hips   float64
    Length float64
}

// Booking represents a row in the `bookings` table.  Tailor is populated by
// the repository through a join on tailor_id and is nil only when the
// referenced tailor row cannot be resolved.
//
// Fields:
//  AppointmentDate – calendar date at midnight UTC.
//  AppointmentTime – clock time on the zero date (0000-01-01 UTC).
//  Notes           – free text, empty string when not supplied.
type Booking struct {
    ID              uint64    // bookings.id
    Name            string    // bookings.name
    Email           string    // bookings.email
    Phone           string    // bookings.phone
    DesignID        int64     // bookings.design_id (catalog id, not a foreign key)
    TailorID        uint64    // bookings.tailor_id (FK tailors.id)
    Measurements              // bookings.chest/waist/hips/length
    AppointmentDate time.Time // bookings.appointment_date
    AppointmentTime time.Time // bookings.appointment_time
    Notes           string    // bookings.notes
    CreatedAt       time.Time // bookings.created_at
    Tailor          *Tailor   // joined tailors row
}

// CreateTableSQL returns the DDL for the bookings table.  The foreign key on
// tailor_id is what rejects bookings for unknown tailors.
func (Booking) CreateTableSQL() string {
    return `
    CREATE TABLE IF NOT EXISTS bookings (
        id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        name             VARCHAR(100) NOT NULL,
        email            VARCHAR(120) NOT NULL,
        phone            VARCHAR(20)  NOT NULL,
        design_id        BIGINT NOT NULL,
        tailor_id        BIGINT UNSIGNED NOT NULL,
        chest            DECIMAL(5,2) NOT NULL,
        waist            DECIMAL(5,2) NOT NULL,
        hips             DECIMAL(5,2) NOT NULL,
        length           DECIMAL(5,2) NOT NULL,
        appointment_date DATE NOT NULL,
        appointment_time TIME NOT NULL,
        notes            TEXT NULL,
        created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_bookings_design (design_id),
        KEY idx_bookings_slot (appointment_date, appointment_time),
        CONSTRAINT fk_bookings_tailor FOREIGN KEY (tailor_id) REFERENCES tailors (id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
}
