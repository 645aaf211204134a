package utils

import (
	"mime/multipart"
	"strconv"
)

// Form helpers for multipart requests that must distinguish "field absent"
// from "field present with a zero value". An absent field yields nil; a
// present field yields a pointer, even for "" or 0. Update handlers rely on
// this so a legitimate zero never gets coalesced back to the stored value.

// FormValue returns the first value for key, and whether the key was present.
func FormValue(form *multipart.Form, key string) (string, bool) {
	if form == nil {
		return "", false
	}
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// OptionalString returns a pointer to the field value, or nil if absent.
func OptionalString(form *multipart.Form, key string) *string {
	v, ok := FormValue(form, key)
	if !ok {
		return nil
	}
	return &v
}

// OptionalFloat parses the field as a float64, returning nil if absent.
func OptionalFloat(form *multipart.Form, key string) (*float64, error) {
	v, ok := FormValue(form, key)
	if !ok {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// OptionalInt parses the field as an int, returning nil if absent.
func OptionalInt(form *multipart.Form, key string) (*int, error) {
	v, ok := FormValue(form, key)
	if !ok {
		return nil, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
