package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/tailor-booking/internal/booking"
	"github.com/iliyamo/tailor-booking/internal/model"
)

func sampleBookings() []*model.Booking {
	appt, _ := time.Parse(model.TimeLayout, "10:30")
	tailor := &model.Tailor{ID: 1, Name: "Rajesh Kumar"}
	return []*model.Booking{
		{
			ID: 1, Name: "A", Email: "a@b.com", Phone: "123", DesignID: 2, TailorID: 1,
			Measurements:    model.Measurements{Chest: 40, Waist: 32.5, Hips: 38, Length: 30},
			AppointmentDate: time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC),
			AppointmentTime: appt,
			CreatedAt:       time.Date(2026, 10, 16, 8, 5, 9, 0, time.UTC),
			Tailor:          tailor,
		},
		{
			ID: 2, Name: "Doe, Jane", Email: "j@d.com", Phone: "+91 1", DesignID: 3, TailorID: 1,
			Measurements:    model.Measurements{Chest: 36, Waist: 28, Hips: 36, Length: 41.25},
			AppointmentDate: time.Date(2999, 2, 3, 0, 0, 0, 0, time.UTC),
			AppointmentTime: appt,
			Notes:           "say \"hi\"\nsecond line",
			CreatedAt:       time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
			Tailor:          tailor,
		},
	}
}

func TestToCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToCSV(&buf, sampleBookings()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, Columns, recs[0])
	assert.Equal(t, []string{
		"1", "A", "a@b.com", "123", "2", "Rajesh Kumar",
		"40.00", "32.50", "38.00", "30.00",
		"2999-01-01", "10:30", "", "2026-10-16 08:05:09",
	}, recs[1])
	assert.Equal(t, "Doe, Jane", recs[2][1])
	assert.Equal(t, "say \"hi\"\nsecond line", recs[2][12])
}

func TestToCSV_QuotesSpecialFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToCSV(&buf, sampleBookings()[1:]))
	out := buf.String()
	assert.Contains(t, out, `"Doe, Jane"`)
	assert.Contains(t, out, `"say ""hi""`)
}

func TestToCSV_EmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToCSV(&buf, nil))
	assert.Equal(t, "ID,Name,Email,Phone,Design ID,Tailor,Chest,Waist,Hips,Length,Appointment Date,Appointment Time,Notes,Created At\n", buf.String())
}

func TestToCSV_MissingTailor(t *testing.T) {
	bs := sampleBookings()
	bs[1].Tailor = nil
	bs[1].TailorID = 9

	err := ToCSV(&bytes.Buffer{}, bs)
	var ierr *booking.IntegrityError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, uint64(2), ierr.BookingID)
	assert.Equal(t, uint64(9), ierr.TailorID)
}

func TestToXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToXLSX(&buf, sampleBookings()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Rajesh Kumar", rows[1][5])
	assert.Equal(t, "32.5", rows[1][7])
	assert.Equal(t, "2999-02-03", rows[2][10])
	assert.Equal(t, "2026-10-16 09:00:00", rows[2][13])
}

func TestToXLSX_MissingTailor(t *testing.T) {
	bs := sampleBookings()
	bs[0].Tailor = nil
	err := ToXLSX(&bytes.Buffer{}, bs)
	var ierr *booking.IntegrityError
	assert.True(t, errors.As(err, &ierr))
}

func TestFilename(t *testing.T) {
	day := time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "bookings_20261016.csv", Filename(day, "csv"))
	assert.Equal(t, "bookings_20261016.xlsx", Filename(day, "xlsx"))
}
