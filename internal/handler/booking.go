package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-booking/internal/booking"
    "github.com/iliyamo/tailor-booking/internal/catalog"
    "github.com/iliyamo/tailor-booking/internal/export"
    "github.com/iliyamo/tailor-booking/internal/metrics"
    "github.com/iliyamo/tailor-booking/internal/model"
)

// BookingEvents is notified after a booking commits.  service.Publisher
// implements it.
type BookingEvents interface {
    BookingCreated(ctx context.Context, b *model.Booking) error
}

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BookingHandler runs the booking flow: validate, check the design, save,
// announce.  It also serves the listing and export endpoints.
type BookingHandler struct {
    Store     booking.Store
    Validator *booking.Validator
    Designs   catalog.Catalog
    Events    BookingEvents // optional
    Metrics   *metrics.Metrics
    Location  *time.Location
    Now       func() time.Time
}

func NewBookingHandler(store booking.Store, v *booking.Validator, designs catalog.Catalog,
    events BookingEvents, m *metrics.Metrics, loc *time.Location) *BookingHandler {
    if m == nil {
        m = metrics.Discard()
    }
    if loc == nil {
        loc = time.UTC
    }
    return &BookingHandler{
        Store: store, Validator: v, Designs: designs, Events: events,
        Metrics: m, Location: loc, Now: time.Now,
    }
}

// Create: POST /api/book.  JSON bodies get JSON answers; form posts are
// redirected with a flash message.
func (h *BookingHandler) Create(c echo.Context) error {
    asJSON := strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)

    in, err := readInput(c, asJSON)
    if err != nil {
        if asJSON {
            return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
        }
        return h.redirectFlash(c, "/book", "error", "Invalid request body")
    }

    nb, err := h.Validator.Validate(in)
    if err != nil {
        var verr *booking.ValidationError
        if errors.As(err, &verr) {
            h.Metrics.ValidationFailures.Inc()
            if asJSON {
                return c.JSON(http.StatusBadRequest, echo.Map{"errors": verr.Messages})
            }
            return h.redirectFlash(c, "/book", "error", strings.Join(verr.Messages, "; "))
        }
        return h.fail(c, asJSON, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Designs.Get(ctx, nb.DesignID); err != nil {
        if errors.Is(err, catalog.ErrNotFound) {
            return h.notFound(c, asJSON, "Design not found")
        }
        return h.fail(c, asJSON, fmt.Errorf("design lookup: %w", err))
    }

    b, err := h.Store.Save(ctx, nb)
    if err != nil {
        if errors.Is(err, booking.ErrTailorNotFound) {
            return h.notFound(c, asJSON, "Tailor not found")
        }
        return h.fail(c, asJSON, err)
    }
    h.Metrics.BookingsCreated.Inc()
    slog.Info("booking created", "booking_id", b.ID, "tailor_id", b.TailorID, "design_id", b.DesignID)

    if h.Events != nil {
        pctx, pcancel := context.WithTimeout(context.Background(), 2*time.Second)
        if err := h.Events.BookingCreated(pctx, b); err != nil {
            slog.Warn("publish booking.created", "booking_id", b.ID, "err", err)
        }
        pcancel()
    }

    if asJSON {
        return c.JSON(http.StatusCreated, toBookingResponse(b))
    }
    return h.redirectFlash(c, "/", "success", "Booking successful!")
}

// List: GET /api/bookings, every booking in insertion order.
func (h *BookingHandler) List(c echo.Context) error {
    bs, err := h.Store.ListAll(c.Request().Context())
    if err != nil {
        return h.fail(c, true, err)
    }
    return c.JSON(http.StatusOK, toBookingResponses(bs))
}

// AdminList: GET /admin/bookings, ordered by appointment slot.
func (h *BookingHandler) AdminList(c echo.Context) error {
    bs, err := h.Store.ListOrdered(c.Request().Context())
    if err != nil {
        return h.fail(c, true, err)
    }
    return c.JSON(http.StatusOK, toBookingResponses(bs))
}

// ExportCSV: GET /admin/bookings.csv
func (h *BookingHandler) ExportCSV(c echo.Context) error {
    return h.export(c, "csv", "text/csv; charset=utf-8", export.ToCSV)
}

// ExportXLSX: GET /admin/bookings.xlsx
func (h *BookingHandler) ExportXLSX(c echo.Context) error {
    return h.export(c, "xlsx", mimeXLSX, export.ToXLSX)
}

func (h *BookingHandler) export(c echo.Context, format, mime string,
    render func(io.Writer, []*model.Booking) error) error {
    bs, err := h.Store.ListOrdered(c.Request().Context())
    if err != nil {
        return h.fail(c, true, err)
    }

    var buf bytes.Buffer
    if err := render(&buf, bs); err != nil {
        var ierr *booking.IntegrityError
        if errors.As(err, &ierr) {
            slog.Error("export aborted", "format", format, "booking_id", ierr.BookingID, "tailor_id", ierr.TailorID)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Export failed: booking references an unknown tailor"})
        }
        return h.fail(c, true, err)
    }
    h.Metrics.Exports.WithLabelValues(format).Inc()

    name := export.Filename(h.Now().In(h.Location), format)
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
    return c.Blob(http.StatusOK, mime, buf.Bytes())
}

// readInput decodes a JSON object (numbers kept as json.Number) or the
// posted form fields.
func readInput(c echo.Context, asJSON bool) (booking.Input, error) {
    if !asJSON {
        form, err := c.FormParams()
        if err != nil {
            return nil, err
        }
        return booking.FormInput(form), nil
    }
    dec := json.NewDecoder(c.Request().Body)
    dec.UseNumber()
    in := booking.Input{}
    if err := dec.Decode(&in); err != nil {
        return nil, err
    }
    return in, nil
}

func (h *BookingHandler) notFound(c echo.Context, asJSON bool, msg string) error {
    if asJSON {
        return c.JSON(http.StatusNotFound, echo.Map{"errors": []string{msg}})
    }
    return h.redirectFlash(c, "/book", "error", msg)
}

// fail logs err and answers with the generic 500 message.
func (h *BookingHandler) fail(c echo.Context, asJSON bool, err error) error {
    slog.Error("booking request failed", "path", c.Path(), "err", err)
    if asJSON {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return h.redirectFlash(c, "/book", "error", "Error creating booking. Please try again.")
}

func (h *BookingHandler) redirectFlash(c echo.Context, to, category, msg string) error {
    setFlash(c, category, msg)
    return c.Redirect(http.StatusSeeOther, to)
}
