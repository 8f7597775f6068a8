package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a price as the commerce API sends it. It accepts a JSON number,
// a numeric string or null; anything else decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// Ref is a reference to another document. The API sends either the bare id
// or the populated document; both decode to the id.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Ref(s)
	case '{':
		var doc struct {
			ID  string `json:"_id"`
			Alt string `json:"id"`
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		if doc.ID == "" {
			doc.ID = doc.Alt
		}
		*r = Ref(doc.ID)
	default:
		*r = ""
	}
	return nil
}

// Count is a quantity as the commerce API sends it. It accepts a JSON number
// or a numeric string; anything else decodes to zero.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	var a Amount
	if err := a.UnmarshalJSON(b); err != nil {
		return err
	}
	*c = Count(int(a))
	return nil
}
