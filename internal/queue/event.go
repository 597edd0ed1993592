// Package queue defines the booking.created message and the consumer that
// appends it to the booking log.
package queue

import (
    "strconv"

    "github.com/iliyamo/tailor-booking/internal/model"
)

// BookingCreatedQueue is the durable queue bookings are announced on.
const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published after a booking is committed.  It carries
// enough for downstream consumers (audit log, notifications) to act without
// reading the database.
type BookingCreatedEvent struct {
    BookingID       uint64 `json:"booking_id"`
    TailorID        uint64 `json:"tailor_id"`
    TailorName      string `json:"tailor_name"`
    DesignID        int64  `json:"design_id"`
    CustomerName    string `json:"customer_name"`
    CustomerEmail   string `json:"customer_email"`
    AppointmentDate string `json:"appointment_date"`
    AppointmentTime string `json:"appointment_time"`
    CreatedAt       string `json:"created_at"`
}

// NewBookingCreatedEvent flattens a stored booking into an event.
func NewBookingCreatedEvent(b *model.Booking) BookingCreatedEvent {
    ev := BookingCreatedEvent{
        BookingID:       b.ID,
        TailorID:        b.TailorID,
        DesignID:        b.DesignID,
        CustomerName:    b.Name,
        CustomerEmail:   b.Email,
        AppointmentDate: b.AppointmentDate.Format(model.DateLayout),
        AppointmentTime: b.AppointmentTime.Format(model.TimeLayout),
        CreatedAt:       b.CreatedAt.Format(model.TimestampLayout),
    }
    if b.Tailor != nil {
        ev.TailorName = b.Tailor.Name
    } else {
        ev.TailorName = "tailor#" + strconv.FormatUint(b.TailorID, 10)
    }
    return ev
}
