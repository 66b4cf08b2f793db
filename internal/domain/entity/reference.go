package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Ref is a named lookup reference such as a sector, department or agency.
// The backend sends either a bare id or an expanded object.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = Ref{}
		return nil
	case len(data) > 0 && data[0] == '{':
		type plain Ref
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*r = Ref(p)
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			*r = Ref{ID: id}
		} else {
			*r = Ref{Name: s}
		}
		return nil
	default:
		id, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
}

// Person is a reference to a user account
type Person struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email,omitempty"`
	Department Ref    `json:"department_id"`
}

// UnmarshalJSON accepts a bare user id or an expanded object
func (p *Person) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Person{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*p = Person{ID: id}
		return nil
	}
	type plain Person
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Person(v)
	return nil
}

// Name joins first and last name
func (p Person) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
