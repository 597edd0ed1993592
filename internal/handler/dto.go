package handler

import (
    "github.com/iliyamo/tailor-booking/internal/model"
)

// TailorResponse is the public view of a tailor.
type TailorResponse struct {
    ID              uint64  `json:"id"`
    Name            string  `json:"name"`
    Email           string  `json:"email"`
    Phone           string  `json:"phone"`
    Specialty       *string `json:"specialty"`
    ExperienceYears *int    `json:"experience_years"`
    CreatedAt       string  `json:"created_at,omitempty"`
}

func toTailorResponse(t *model.Tailor) TailorResponse {
    r := TailorResponse{
        ID:              t.ID,
        Name:            t.Name,
        Email:           t.Email,
        Phone:           t.Phone,
        Specialty:       t.Specialty,
        ExperienceYears: t.ExperienceYears,
    }
    if !t.CreatedAt.IsZero() {
        r.CreatedAt = t.CreatedAt.Format(model.TimestampLayout)
    }
    return r
}

func toTailorResponses(ts []*model.Tailor) []TailorResponse {
    out := make([]TailorResponse, 0, len(ts))
    for _, t := range ts {
        out = append(out, toTailorResponse(t))
    }
    return out
}

type MeasurementsResponse struct {
    Chest  float64 `json:"chest"`
    Waist  float64 `json:"waist"`
    Hips   float64 `json:"hips"`
    Length float64 `json:"length"`
}

// BookingResponse is how bookings are serialized in every JSON endpoint.
// Tailor is null only for rows whose tailor no longer resolves.
type BookingResponse struct {
    ID              uint64               `json:"id"`
    Name            string               `json:"name"`
    Email           string               `json:"email"`
    Phone           string               `json:"phone"`
    DesignID        int64                `json:"design_id"`
    Tailor          *TailorResponse      `json:"tailor"`
    Measurements    MeasurementsResponse `json:"measurements"`
    AppointmentDate string               `json:"appointment_date"`
    AppointmentTime string               `json:"appointment_time"`
    Notes           string               `json:"notes"`
    CreatedAt       string               `json:"created_at"`
}

func toBookingResponse(b *model.Booking) BookingResponse {
    r := BookingResponse{
        ID:       b.ID,
        Name:     b.Name,
        Email:    b.Email,
        Phone:    b.Phone,
        DesignID: b.DesignID,
        Measurements: MeasurementsResponse{
            Chest: b.Chest, Waist: b.Waist, Hips: b.Hips, Length: b.Length,
        },
        AppointmentDate: b.AppointmentDate.Format(model.DateLayout),
        AppointmentTime: b.AppointmentTime.Format(model.TimeLayout),
        Notes:           b.Notes,
        CreatedAt:       b.CreatedAt.Format(model.TimestampLayout),
    }
    if b.Tailor != nil {
        t := toTailorResponse(b.Tailor)
        r.Tailor = &t
    }
    return r
}

func toBookingResponses(bs []*model.Booking) []BookingResponse {
    out := make([]BookingResponse, 0, len(bs))
    for _, b := range bs {
        out = append(out, toBookingResponse(b))
    }
    return out
}
