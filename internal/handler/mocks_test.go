package handler

import (
    "context"
    "time"

    "github.com/iliyamo/tailor-booking/internal/booking"
    "github.com/iliyamo/tailor-booking/internal/catalog"
    "github.com/iliyamo/tailor-booking/internal/model"
)

// --- booking.Store ---

type mockStore struct {
    saveFn        func(ctx context.Context, nb booking.NormalizedBooking) (*model.Booking, error)
    listAllFn     func(ctx context.Context) ([]*model.Booking, error)
    listOrderedFn func(ctx context.Context) ([]*model.Booking, error)
}

func (m *mockStore) Save(ctx context.Context, nb booking.NormalizedBooking) (*model.Booking, error) {
    return m.saveFn(ctx, nb)
}
func (m *mockStore) ListAll(ctx context.Context) ([]*model.Booking, error) { return m.listAllFn(ctx) }
func (m *mockStore) ListOrdered(ctx context.Context) ([]*model.Booking, error) {
    return m.listOrderedFn(ctx)
}

// --- catalog.Catalog ---

type mockCatalog struct {
    designs []model.Design
    err     error
}

func (m *mockCatalog) List(ctx context.Context) ([]model.Design, error) { return m.designs, m.err }
func (m *mockCatalog) Get(ctx context.Context, id int64) (model.Design, error) {
    if m.err != nil {
        return model.Design{}, m.err
    }
    for _, d := range m.designs {
        if d.ID == id {
            return d, nil
        }
    }
    return model.Design{}, catalog.ErrNotFound
}

// --- TailorDirectory ---

type mockTailors struct {
    tailors []*model.Tailor
    err     error
}

func (m *mockTailors) ListAll(ctx context.Context) ([]*model.Tailor, error) { return m.tailors, m.err }
func (m *mockTailors) GetByID(ctx context.Context, id uint64) (*model.Tailor, error) {
    if m.err != nil {
        return nil, m.err
    }
    for _, t := range m.tailors {
        if t.ID == id {
            return t, nil
        }
    }
    return nil, booking.ErrTailorNotFound
}

// --- BookingEvents ---

type mockEvents struct {
    published []*model.Booking
    err       error
}

func (m *mockEvents) BookingCreated(ctx context.Context, b *model.Booking) error {
    m.published = append(m.published, b)
    return m.err
}

// --- UserStore / TokenStore ---

type mockUsers struct {
    createFn     func(ctx context.Context, name, email, password string, cost int) (uint64, error)
    getByEmailFn func(ctx context.Context, email string) (model.User, error)
    getByIDFn    func(ctx context.Context, id uint64) (model.User, error)
}

func (m *mockUsers) Create(ctx context.Context, name, email, password string, cost int) (uint64, error) {
    return m.createFn(ctx, name, email, password, cost)
}
func (m *mockUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
    return m.getByEmailFn(ctx, email)
}
func (m *mockUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return m.getByIDFn(ctx, id)
}

type mockTokens struct {
    stored     []string
    revoked    []string
    revokedAll []uint64
    validateFn func(ctx context.Context, hash string) (uint64, error)
}

func (m *mockTokens) StoreRefresh(ctx context.Context, userID uint64, hash string, exp time.Time) error {
    m.stored = append(m.stored, hash)
    return nil
}
func (m *mockTokens) ValidateRefresh(ctx context.Context, hash string) (uint64, error) {
    return m.validateFn(ctx, hash)
}
func (m *mockTokens) RevokeByHash(ctx context.Context, hash string) error {
    m.revoked = append(m.revoked, hash)
    return nil
}
func (m *mockTokens) RevokeAllForUser(ctx context.Context, userID uint64) error {
    m.revokedAll = append(m.revokedAll, userID)
    return nil
}

// --- fixtures ---

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

var (
    fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
    rajesh   = &model.Tailor{
        ID: 1, Name: "Rajesh Kumar", Email: "rajesh.kumar@customfit.com", Phone: "+91-555-0123",
        Specialty: strPtr("Traditional Sherwanis"), ExperienceYears: intPtr(15),
        CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
    }
    priya = &model.Tailor{ID: 2, Name: "Priya Sharma", Email: "priya.sharma@customfit.com", Phone: "+91-555-0124"}
)

func testDesigns() []model.Design {
    return []model.Design{
        {ID: 1, Name: "Classic Sherwani", Attributes: map[string]any{"category": "Traditional"}},
        {ID: 2, Name: "Linen Kurta"},
        {ID: 3, Name: "Bandhgala Suit"},
        {ID: 4, Name: "Lehenga"},
    }
}

// storedBooking mimics what BookingRepo.Save returns for nb.
func storedBooking(id uint64, nb booking.NormalizedBooking) *model.Booking {
    return &model.Booking{
        ID: id, Name: nb.Name, Email: nb.Email, Phone: nb.Phone,
        DesignID: nb.DesignID, TailorID: nb.TailorID, Measurements: nb.Measurements,
        AppointmentDate: nb.AppointmentDate, AppointmentTime: nb.AppointmentTime,
        Notes: nb.Notes, CreatedAt: fixedNow, Tailor: rajesh,
    }
}
