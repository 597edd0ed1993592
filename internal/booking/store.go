package booking

import (
	"context"

	"github.com/iliyamo/tailor-booking/internal/model"
)

// Store persists validated bookings.  It is the only component that writes
// booking rows.
//
// Save assigns the id and creation timestamp inside a single transaction.
// A tailor id that does not exist fails with a *PersistenceError wrapping
// ErrTailorNotFound; any other failure is a *PersistenceError as well.
// ListAll returns every booking in id order, ListOrdered sorts by
// appointment date, then time, then id.
type Store interface {
	Save(ctx context.Context, nb NormalizedBooking) (*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
	ListOrdered(ctx context.Context) ([]*model.Booking, error)
}
