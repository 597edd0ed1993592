// Package export renders booking lists into downloadable tabular files.
// CSV and XLSX share one column order so admins get the same sheet either way.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iliyamo/tailor-booking/internal/booking"
	"github.com/iliyamo/tailor-booking/internal/model"
)

// Columns is the fixed header row of every export.
var Columns = []string{
	"ID", "Name", "Email", "Phone", "Design ID", "Tailor",
	"Chest", "Waist", "Hips", "Length",
	"Appointment Date", "Appointment Time", "Notes", "Created At",
}

// ToCSV writes the header followed by one row per booking.  A booking whose
// tailor was not loaded aborts the export with *booking.IntegrityError; rows
// already written are not retracted, so callers should buffer.
func ToCSV(w io.Writer, bookings []*model.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, b := range bookings {
		rec, err := record(b)
		if err != nil {
			return err
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// record formats b in Columns order.
func record(b *model.Booking) ([]string, error) {
	if b.Tailor == nil {
		return nil, &booking.IntegrityError{BookingID: b.ID, TailorID: b.TailorID}
	}
	return []string{
		strconv.FormatUint(b.ID, 10),
		b.Name,
		b.Email,
		b.Phone,
		strconv.FormatInt(b.DesignID, 10),
		b.Tailor.Name,
		decimal(b.Chest),
		decimal(b.Waist),
		decimal(b.Hips),
		decimal(b.Length),
		b.AppointmentDate.Format(model.DateLayout),
		b.AppointmentTime.Format(model.TimeLayout),
		b.Notes,
		b.CreatedAt.Format(model.TimestampLayout),
	}, nil
}

// decimal matches the DECIMAL(5,2) column scale.
func decimal(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
