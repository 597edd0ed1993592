package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/tailor-booking/internal/model"
)

// SheetName is the single worksheet of an XLSX export.
const SheetName = "Bookings"

// ToXLSX writes a workbook with a bold header row and one row per booking.
// Ids and measurements are stored as numbers, everything else as text.
func ToXLSX(w io.Writer, bookings []*model.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, style)
	}

	for i, b := range bookings {
		rec, err := record(b)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		// numeric cells: ID, Design ID, four measurements
		row[0] = b.ID
		row[4] = b.DesignID
		row[6], row[7], row[8], row[9] = b.Chest, b.Waist, b.Hips, b.Length

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// Filename returns "bookings_YYYYMMDD.<ext>" for the given day.
func Filename(day time.Time, ext string) string {
	return "bookings_" + day.Format("20060102") + "." + ext
}
