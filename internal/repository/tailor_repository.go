package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/tailor-booking/internal/booking"
	"github.com/iliyamo/tailor-booking/internal/model"
)

// TailorRepo encapsulates queries on the tailors table.  The booking flow
// only reads through it; Create and DeleteAll exist for seeding.
type TailorRepo struct {
	db *sql.DB
}

func NewTailorRepo(db *sql.DB) *TailorRepo { return &TailorRepo{db: db} }

const tailorColumns = "id, name, email, phone, specialty, experience_years, created_at"

// ListAll returns all tailors ordered by id.
func (r *TailorRepo) ListAll(ctx context.Context) ([]*model.Tailor, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+tailorColumns+" FROM tailors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Tailor, 0)
	for rows.Next() {
		t, err := scanTailor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns booking.ErrTailorNotFound when no row matches.
func (r *TailorRepo) GetByID(ctx context.Context, id uint64) (*model.Tailor, error) {
	t, err := scanTailor(r.db.QueryRowContext(ctx,
		"SELECT "+tailorColumns+" FROM tailors WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrTailorNotFound
		}
		return nil, err
	}
	return t, nil
}

// Create inserts t and fills in its generated id.
func (r *TailorRepo) Create(ctx context.Context, t *model.Tailor) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tailors (name, email, phone, specialty, experience_years) VALUES (?,?,?,?,?)",
		t.Name, t.Email, t.Phone, t.Specialty, t.ExperienceYears)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// DeleteAll removes every tailor.  It fails while bookings still reference
// any of them.
func (r *TailorRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tailors")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanTailor(s scanner) (*model.Tailor, error) {
	var (
		t         model.Tailor
		specialty sql.NullString
		exp       sql.NullInt32
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &specialty, &exp, &t.CreatedAt); err != nil {
		return nil, err
	}
	if specialty.Valid {
		t.Specialty = &specialty.String
	}
	if exp.Valid {
		n := int(exp.Int32)
		t.ExperienceYears = &n
	}
	return &t, nil
}
