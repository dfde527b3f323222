package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Spec is one specification row, e.g. "Loại gas" = "R32".
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Specs is a product's specification table in the order the author wrote
// it. Over the API it is a JSON object whose keys keep that order; in the
// database it is an array of pairs, so jsonb columns keep it too.
type Specs []Spec

// Get returns the value stored under key.
func (s Specs) Get(key string) (string, bool) {
	for _, sp := range s {
		if sp.Key == key {
			return sp.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new row.
func (s Specs) Set(key, value string) Specs {
	for i := range s {
		if s[i].Key == key {
			s[i].Value = value
			return s
		}
	}
	return append(s, Spec{Key: key, Value: value})
}

func (s Specs) Keys() []string {
	out := make([]string, len(s))
	for i, sp := range s {
		out[i] = sp.Key
	}
	return out
}

func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sp := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(sp.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(sp.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object, read in document order, or an array of
// {"key","value"} pairs. A repeated key keeps its first position and its
// last value. Non-string values are kept as their JSON text.
func (s *Specs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = Specs{}
		return nil
	case b[0] == '[':
		var pairs []Spec
		if err := json.Unmarshal(b, &pairs); err != nil {
			return err
		}
		out := Specs{}
		for _, p := range pairs {
			out = out.Set(p.Key, p.Value)
		}
		*s = out
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("specifications: want a JSON object")
	}
	out := Specs{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = out.Set(key, specValue(raw))
	}
	*s = out
	return nil
}

func specValue(raw json.RawMessage) string {
	var v string
	if err := json.Unmarshal(raw, &v); err == nil {
		return v
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}

// Value stores the rows as an array of pairs.
func (s Specs) Value() (driver.Value, error) {
	if s == nil {
		s = Specs{}
	}
	b, err := json.Marshal([]Spec(s))
	return string(b), err
}

// Scan reads either the stored array or an older object-shaped value.
func (s *Specs) Scan(v interface{}) error {
	switch b := v.(type) {
	case nil:
		*s = Specs{}
		return nil
	case []byte:
		return s.UnmarshalJSON(b)
	case string:
		return s.UnmarshalJSON([]byte(b))
	default:
		return fmt.Errorf("specifications: cannot scan %T", v)
	}
}

func (Specs) GormDataType() string { return "json" }

func (Specs) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver":
		return "NVARCHAR(MAX)"
	default:
		return "JSON"
	}
}
