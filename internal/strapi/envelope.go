package strapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Entity is one `{id, attributes}` object.
type Entity[T any] struct {
	ID         int `json:"id"`
	Attributes T   `json:"attributes"`
}

// Relation is a populated relation, `{data: {id, attributes}}` or `{data: null}`.
type Relation[T any] struct {
	Data *Entity[T] `json:"data"`
}

// Get returns the related attributes, or the zero value when the relation is empty.
func (r Relation[T]) Get() T {
	if r.Data == nil {
		var zero T
		return zero
	}
	return r.Data.Attributes
}

// ListResponse is the collection envelope `{data: [...], meta: {...}}`.
type ListResponse[T any] struct {
	Data []Entity[T]     `json:"data"`
	Meta json.RawMessage `json:"meta,omitempty"`
}

// FlexString decodes a JSON string, number or null into a string. Marks and
// CPI fields arrive as either type depending on how the record was entered.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// MarshalJSON writes the value as a JSON string.
func (f FlexString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(f))), nil
}

func (f FlexString) String() string {
	return string(f)
}
