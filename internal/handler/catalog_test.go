package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/tailor-booking/internal/model"
)

func newCatalogHandler() *CatalogHandler {
    return NewCatalogHandler(&mockCatalog{designs: testDesigns()},
        &mockTailors{tailors: []*model.Tailor{rajesh, priya, {ID: 3, Name: "Abdul Karim"}, {ID: 4, Name: "Meera Patel"}}})
}

func get(target string, params ...string) (*httptest.ResponseRecorder, echo.Context) {
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    if len(params) == 2 {
        c.SetParamNames(params[0])
        c.SetParamValues(params[1])
    }
    return rec, c
}

type optionsResp struct {
    Designs []map[string]any `json:"designs"`
    Tailors []TailorResponse `json:"tailors"`
}

func TestListDesigns_FlattensAttributes(t *testing.T) {
    rec, c := get("/api/designs")
    require.NoError(t, newCatalogHandler().ListDesigns(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp []map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    require.Len(t, resp, 4)
    assert.Equal(t, "Traditional", resp[0]["category"])
    assert.Equal(t, 1.0, resp[0]["id"])
}

func TestGetDesign(t *testing.T) {
    rec, c := get("/api/designs/2", "id", "2")
    require.NoError(t, newCatalogHandler().GetDesign(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":2,"name":"Linen Kurta"}`, rec.Body.String())

    for _, id := range []string{"99", "abc", "0"} {
        rec, c = get("/api/designs/"+id, "id", id)
        require.NoError(t, newCatalogHandler().GetDesign(c))
        assert.Equal(t, http.StatusNotFound, rec.Code, id)
        assert.JSONEq(t, `{"error":"Design not found"}`, rec.Body.String())
    }
}

func TestListDesigns_CatalogError(t *testing.T) {
    h := NewCatalogHandler(&mockCatalog{err: errors.New("bad yaml")}, &mockTailors{})
    rec, c := get("/api/designs")
    require.NoError(t, h.ListDesigns(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListTailors(t *testing.T) {
    rec, c := get("/api/tailors")
    require.NoError(t, newCatalogHandler().ListTailors(c))

    var resp []map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    require.Len(t, resp, 4)
    assert.Equal(t, "Rajesh Kumar", resp[0]["name"])
    assert.Equal(t, "Traditional Sherwanis", resp[0]["specialty"])
    assert.Nil(t, resp[1]["specialty"])
    assert.Nil(t, resp[1]["experience_years"])
}

func TestGetTailor(t *testing.T) {
    rec, c := get("/api/tailors/2", "id", "2")
    require.NoError(t, newCatalogHandler().GetTailor(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    rec, c = get("/api/tailors/42", "id", "42")
    require.NoError(t, newCatalogHandler().GetTailor(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.JSONEq(t, `{"error":"Tailor not found"}`, rec.Body.String())
}

func TestHome_LimitsToThree(t *testing.T) {
    rec, c := get("/api/home")
    require.NoError(t, newCatalogHandler().Home(c))

    var resp optionsResp
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Len(t, resp.Designs, 3)
    assert.Len(t, resp.Tailors, 3)
}

func TestBookOptions(t *testing.T) {
    cases := []struct {
        name    string
        target  string
        param   []string
        status  int
        tailors int
    }{
        {"all", "/api/book", nil, http.StatusOK, 4},
        {"query narrows", "/api/book?tailor_id=2", nil, http.StatusOK, 1},
        {"query unknown ignored", "/api/book?tailor_id=77", nil, http.StatusOK, 4},
        {"query garbage ignored", "/api/book?tailor_id=x", nil, http.StatusOK, 4},
        {"path tailor", "/api/book/1", []string{"tailor_id", "1"}, http.StatusOK, 1},
        {"path unknown", "/api/book/77", []string{"tailor_id", "77"}, http.StatusNotFound, 0},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec, c := get(tc.target, tc.param...)
            require.NoError(t, newCatalogHandler().BookOptions(c))
            assert.Equal(t, tc.status, rec.Code)
            if tc.status != http.StatusOK {
                return
            }
            var resp optionsResp
            require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
            assert.Len(t, resp.Designs, 4)
            assert.Len(t, resp.Tailors, tc.tailors)
        })
    }
}

func TestFlashRoundTrip(t *testing.T) {
    rec, c := get("/")
    setFlash(c, "success", "Booking successful!")
    ck := rec.Result().Cookies()[0]

    req := httptest.NewRequest(http.MethodGet, "/api/flash", nil)
    req.AddCookie(ck)
    rec2 := httptest.NewRecorder()
    c2 := echo.New().NewContext(req, rec2)
    require.NoError(t, GetFlash(c2))
    assert.JSONEq(t, `{"category":"success","message":"Booking successful!"}`, rec2.Body.String())

    rec3, c3 := get("/api/flash")
    require.NoError(t, GetFlash(c3))
    assert.Equal(t, http.StatusNoContent, rec3.Code)
}
