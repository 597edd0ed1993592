package handler

import (
    "context"
    "errors"
    "log/slog"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-booking/internal/booking"
    "github.com/iliyamo/tailor-booking/internal/catalog"
    "github.com/iliyamo/tailor-booking/internal/model"
)

// TailorDirectory lists and looks up tailors.  repository.TailorRepo
// implements it; GetByID returns booking.ErrTailorNotFound for unknown ids.
type TailorDirectory interface {
    ListAll(ctx context.Context) ([]*model.Tailor, error)
    GetByID(ctx context.Context, id uint64) (*model.Tailor, error)
}

// homeLimit is how many designs and tailors the landing page features.
const homeLimit = 3

// CatalogHandler serves the read-only browsing endpoints.
type CatalogHandler struct {
    Designs catalog.Catalog
    Tailors TailorDirectory
}

func NewCatalogHandler(d catalog.Catalog, t TailorDirectory) *CatalogHandler {
    return &CatalogHandler{Designs: d, Tailors: t}
}

// ListDesigns: GET /api/designs
func (h *CatalogHandler) ListDesigns(c echo.Context) error {
    designs, err := h.Designs.List(c.Request().Context())
    if err != nil {
        slog.Error("list designs", "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return c.JSON(http.StatusOK, designs)
}

// GetDesign: GET /api/designs/:id
func (h *CatalogHandler) GetDesign(c echo.Context) error {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Design not found"})
    }
    d, err := h.Designs.Get(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, catalog.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Design not found"})
        }
        slog.Error("get design", "id", id, "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return c.JSON(http.StatusOK, d)
}

// ListTailors: GET /api/tailors
func (h *CatalogHandler) ListTailors(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ts, err := h.Tailors.ListAll(ctx)
    if err != nil {
        slog.Error("list tailors", "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return c.JSON(http.StatusOK, toTailorResponses(ts))
}

// GetTailor: GET /api/tailors/:id
func (h *CatalogHandler) GetTailor(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Tailor not found"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tailors.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, booking.ErrTailorNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Tailor not found"})
        }
        slog.Error("get tailor", "id", id, "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    return c.JSON(http.StatusOK, toTailorResponse(t))
}

// Home: GET /api/home, the first few designs and tailors.
func (h *CatalogHandler) Home(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    designs, err := h.Designs.List(ctx)
    if err != nil {
        slog.Error("home: designs", "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    ts, err := h.Tailors.ListAll(ctx)
    if err != nil {
        slog.Error("home: tailors", "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
    if len(designs) > homeLimit {
        designs = designs[:homeLimit]
    }
    if len(ts) > homeLimit {
        ts = ts[:homeLimit]
    }
    return c.JSON(http.StatusOK, echo.Map{"designs": designs, "tailors": toTailorResponses(ts)})
}

// BookOptions: GET /api/book and GET /api/book/:tailor_id.  Returns what the
// booking form offers.  A path tailor must exist; a ?tailor_id= query only
// narrows the list when it matches someone.
func (h *CatalogHandler) BookOptions(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    designs, err := h.Designs.List(ctx)
    if err != nil {
        slog.Error("book options: designs", "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }

    var tailors []*model.Tailor
    if p := c.Param("tailor_id"); p != "" {
        id, err := strconv.ParseUint(p, 10, 64)
        if err != nil || id == 0 {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Tailor not found"})
        }
        t, err := h.Tailors.GetByID(ctx, id)
        if err != nil {
            if errors.Is(err, booking.ErrTailorNotFound) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "Tailor not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
        }
        tailors = []*model.Tailor{t}
    } else {
        tailors, err = h.Tailors.ListAll(ctx)
        if err != nil {
            slog.Error("book options: tailors", "err", err)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
        }
        if q, err := strconv.ParseUint(c.QueryParam("tailor_id"), 10, 64); err == nil {
            for _, t := range tailors {
                if t.ID == q {
                    tailors = []*model.Tailor{t}
                    break
                }
            }
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"designs": designs, "tailors": toTailorResponses(tailors)})
}
