// Package catalog serves the read-only design catalog.  Designs live in a
// JSON or YAML document with a top-level "designs" list; nothing in the
// application writes to it.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/tailor-booking/internal/booking"
	"github.com/iliyamo/tailor-booking/internal/model"
)

// ErrNotFound is returned by Get when no design has the requested id.
var ErrNotFound = booking.ErrDesignNotFound

// Catalog is the lookup the booking flow needs.
type Catalog interface {
	List(ctx context.Context) ([]model.Design, error)
	Get(ctx context.Context, id int64) (model.Design, error)
}

// FileCatalog reads designs from Path.  Without Cache the file is parsed on
// every call so edits show up immediately; with Cache the first successful
// parse is kept for the process lifetime.
type FileCatalog struct {
	Path  string
	Cache bool

	mu     sync.RWMutex
	loaded []model.Design
}

// NewFileCatalog returns a catalog backed by the document at path.
func NewFileCatalog(path string, cache bool) *FileCatalog {
	return &FileCatalog{Path: path, Cache: cache}
}

// List returns all designs in document order.
func (c *FileCatalog) List(ctx context.Context) ([]model.Design, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Cache {
		c.mu.RLock()
		d := c.loaded
		c.mu.RUnlock()
		if d != nil {
			return d, nil
		}
	}
	designs, err := c.read()
	if err != nil {
		return nil, err
	}
	if c.Cache {
		c.mu.Lock()
		c.loaded = designs
		c.mu.Unlock()
	}
	return designs, nil
}

// Get returns the design with the given id or ErrNotFound.
func (c *FileCatalog) Get(ctx context.Context, id int64) (model.Design, error) {
	designs, err := c.List(ctx)
	if err != nil {
		return model.Design{}, err
	}
	for _, d := range designs {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Design{}, ErrNotFound
}

func (c *FileCatalog) read() ([]model.Design, error) {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".yaml", ".yml":
		return ParseYAML(raw)
	default:
		return ParseJSON(raw)
	}
}

// ParseJSON decodes a {"designs": [...]} document.
func ParseJSON(raw []byte) ([]model.Design, error) {
	var doc struct {
		Designs []map[string]any `json:"designs"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog json: %w", err)
	}
	return fromMaps(doc.Designs)
}

// ParseYAML decodes the same document written as YAML.
func ParseYAML(raw []byte) ([]model.Design, error) {
	var doc struct {
		Designs []map[string]any `yaml:"designs"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return fromMaps(doc.Designs)
}

func fromMaps(entries []map[string]any) ([]model.Design, error) {
	out := make([]model.Design, 0, len(entries))
	for i, e := range entries {
		id, err := toID(e["id"])
		if err != nil {
			return nil, fmt.Errorf("design #%d: %w", i, err)
		}
		name, _ := e["name"].(string)
		attrs := make(map[string]any, len(e))
		for k, v := range e {
			if k == "id" || k == "name" {
				continue
			}
			attrs[k] = v
		}
		out = append(out, model.Design{ID: id, Name: name, Attributes: attrs})
	}
	return out, nil
}

func toID(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, errors.New("missing id")
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("id %d out of range", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("id %v is not an integer", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("unsupported id type %T", v)
}
