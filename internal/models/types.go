// Package models defines data structures and domain types.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a primary key as sent by the backend. Some endpoints serialize keys
// as numbers and others as UUID strings, so both forms are accepted.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	s, err := flexibleString(b)
	if err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// String returns the key as a string.
func (id ID) String() string { return string(id) }

// Amount is a decimal money value. The backend sends decimals as strings
// ("10.00") but older endpoints emit plain numbers.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s, err := flexibleString(b)
	if err != nil {
		return err
	}
	*a = Amount(s)
	return nil
}

// Float parses the amount, returning 0 for empty or malformed values.
func (a Amount) Float() float64 {
	f, err := strconv.ParseFloat(string(a), 64)
	if err != nil {
		return 0
	}
	return f
}

// String returns the amount or "-" when unset.
func (a Amount) String() string {
	if a == "" {
		return "-"
	}
	return string(a)
}

// flexibleString decodes a JSON string, number or bool into its text form.
func flexibleString(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(b), nil
}
