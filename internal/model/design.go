package model

import "encoding/json"

// Design is a read-only catalog entry describing a garment style.  Only the
// id and name are interpreted; every other key of the source document is
// kept verbatim in Attributes so clients receive the entry unchanged.
type Design struct {
    ID         int64
    Name       string
    Attributes map[string]any
}

// MarshalJSON flattens Attributes next to id and name.
func (d Design) MarshalJSON() ([]byte, error) {
    out := make(map[string]any, len(d.Attributes)+2)
    for k, v := range d.Attributes {
        out[k] = v
    }
    out["id"] = d.ID
    out["name"] = d.Name
    return json.Marshal(out)
}
