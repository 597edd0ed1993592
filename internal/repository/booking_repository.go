package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/tailor-booking/internal/booking"
	"github.com/iliyamo/tailor-booking/internal/model"
)

// sqlTimeLayout is how MySQL renders TIME columns.
const sqlTimeLayout = "15:04:05"

// bookingSelect joins the tailor so every booking carries its display name.
// LEFT JOIN keeps bookings visible even if the tailor row disappeared; the
// export layer treats that as an integrity failure.
const bookingSelect = `SELECT b.id, b.name, b.email, b.phone, b.design_id, b.tailor_id,
       b.chest, b.waist, b.hips, b.length,
       b.appointment_date, b.appointment_time, COALESCE(b.notes, ''), b.created_at,
       t.id, t.name, t.email, t.phone, t.specialty, t.experience_years, t.created_at
FROM bookings b
LEFT JOIN tailors t ON t.id = b.tailor_id`

// BookingRepo implements booking.Store on MySQL.
type BookingRepo struct {
	db *sql.DB
}

var _ booking.Store = (*BookingRepo)(nil)

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Save inserts nb and reads the stored row back, tailor included, inside one
// transaction.  Nothing is written when any step fails.
func (r *BookingRepo) Save(ctx context.Context, nb booking.NormalizedBooking) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &booking.PersistenceError{Op: "begin booking tx", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `INSERT INTO bookings
	    (name, email, phone, design_id, tailor_id, chest, waist, hips, length,
	     appointment_date, appointment_time, notes)
	    VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, qInsert,
		nb.Name, nb.Email, nb.Phone, nb.DesignID, nb.TailorID,
		nb.Measurements.Chest, nb.Measurements.Waist, nb.Measurements.Hips, nb.Measurements.Length,
		nb.AppointmentDate.Format(model.DateLayout), nb.AppointmentTime.Format(sqlTimeLayout), nb.Notes)
	if err != nil {
		if isFKViolation(err) {
			return nil, &booking.PersistenceError{Op: "insert booking", Err: booking.ErrTailorNotFound}
		}
		return nil, &booking.PersistenceError{Op: "insert booking", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, &booking.PersistenceError{Op: "insert booking", Err: err}
	}

	b, err := scanBooking(tx.QueryRowContext(ctx, bookingSelect+" WHERE b.id = ?", id))
	if err != nil {
		return nil, &booking.PersistenceError{Op: "reload booking", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &booking.PersistenceError{Op: "commit booking", Err: err}
	}
	committed = true
	return b, nil
}

// ListAll returns every booking in insertion order.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, bookingSelect+" ORDER BY b.id")
}

// ListOrdered returns every booking sorted by appointment slot; bookings for
// the same slot keep insertion order.
func (r *BookingRepo) ListOrdered(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, bookingSelect+" ORDER BY b.appointment_date, b.appointment_time, b.id")
}

func (r *BookingRepo) list(ctx context.Context, q string) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, &booking.PersistenceError{Op: "list bookings", Err: err}
	}
	defer rows.Close()

	out := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, &booking.PersistenceError{Op: "scan booking", Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &booking.PersistenceError{Op: "list bookings", Err: err}
	}
	return out, nil
}

func scanBooking(s scanner) (*model.Booking, error) {
	var (
		b        model.Booking
		apptTime string
		tID      sql.NullInt64
		tName    sql.NullString
		tEmail   sql.NullString
		tPhone   sql.NullString
		tSpecial sql.NullString
		tExp     sql.NullInt32
		tCreated sql.NullTime
	)
	err := s.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.DesignID, &b.TailorID,
		&b.Chest, &b.Waist, &b.Hips, &b.Length,
		&b.AppointmentDate, &apptTime, &b.Notes, &b.CreatedAt,
		&tID, &tName, &tEmail, &tPhone, &tSpecial, &tExp, &tCreated)
	if err != nil {
		return nil, err
	}
	t, err := parseClock(apptTime)
	if err != nil {
		return nil, err
	}
	b.AppointmentTime = t
	if tID.Valid {
		b.Tailor = &model.Tailor{
			ID:        uint64(tID.Int64),
			Name:      tName.String,
			Email:     tEmail.String,
			Phone:     tPhone.String,
			CreatedAt: tCreated.Time,
		}
		if tSpecial.Valid {
			spec := tSpecial.String
			b.Tailor.Specialty = &spec
		}
		if tExp.Valid {
			n := int(tExp.Int32)
			b.Tailor.ExperienceYears = &n
		}
	}
	return &b, nil
}

// parseClock accepts "HH:MM:SS" (with optional fraction) or "HH:MM".
func parseClock(s string) (time.Time, error) {
	for _, layout := range []string{sqlTimeLayout, "15:04:05.999999", model.TimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unexpected appointment_time %q", s)
}
