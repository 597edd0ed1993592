// Package seed loads the sample tailors and default accounts.
package seed

import (
	"context"
	"fmt"

	"github.com/iliyamo/tailor-booking/internal/model"
)

type TailorWriter interface {
	DeleteAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, t *model.Tailor) error
}

type UserWriter interface {
	Any(ctx context.Context) (bool, error)
	Create(ctx context.Context, name, email, password string, cost int) (uint64, error)
}

// Account is a login created when the users table is empty.
type Account struct {
	Name, Email, Password string
}

var (
	// DemoAccount is created by cmd/seed.
	DemoAccount = Account{Name: "Demo User", Email: "demo@customfit.test", Password: "demo123"}
	// TestAccount is created by the server on first start in dev.
	TestAccount = Account{Name: "Test User", Email: "test@example.com", Password: "password123"}
)

func tailor(name, email, phone string, years int, specialty string) model.Tailor {
	return model.Tailor{Name: name, Email: email, Phone: phone, ExperienceYears: &years, Specialty: &specialty}
}

// SampleTailors returns a fresh copy of the shop's sample staff.
func SampleTailors() []model.Tailor {
	return []model.Tailor{
		tailor("Rajesh Kumar", "rajesh.kumar@customfit.com", "+91-555-0123", 15, "Traditional Sherwanis & Wedding Wear"),
		tailor("Priya Sharma", "priya.sharma@customfit.com", "+91-555-0124", 12, "Designer Sarees & Lehengas"),
		tailor("Abdul Karim", "abdul.karim@customfit.com", "+91-555-0125", 18, "Modern Indo-Western Fusion"),
		tailor("Meera Patel", "meera.patel@customfit.com", "+91-555-0126", 20, "Bridal Couture & Embroidery"),
		tailor("Suresh Mehta", "suresh.mehta@customfit.com", "+91-555-0127", 16, "Contemporary Ethnic Wear"),
	}
}

// Tailors replaces every tailor with SampleTailors.  It fails while
// bookings still reference existing tailors.
func Tailors(ctx context.Context, w TailorWriter) ([]model.Tailor, error) {
	if _, err := w.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear tailors: %w", err)
	}
	ts := SampleTailors()
	for i := range ts {
		if err := w.Create(ctx, &ts[i]); err != nil {
			return nil, fmt.Errorf("create tailor %s: %w", ts[i].Email, err)
		}
	}
	return ts, nil
}

// EnsureAccount creates account a when no user exists yet and reports
// whether it did.
func EnsureAccount(ctx context.Context, w UserWriter, a Account, cost int) (bool, error) {
	exists, err := w.Any(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := w.Create(ctx, a.Name, a.Email, a.Password, cost); err != nil {
		return false, fmt.Errorf("create %s: %w", a.Email, err)
	}
	return true, nil
}
