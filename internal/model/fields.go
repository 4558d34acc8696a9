package model

import (
	"fmt"
	"strings"
)

// Field names one column of an ad record.
type Field string

// All record fields, in canonical stream order.
const (
	FieldLink        Field = "link"
	FieldKind        Field = "kind"
	FieldTitle       Field = "title"
	FieldPrice       Field = "price"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
	FieldAuthor      Field = "author"
	FieldProfile     Field = "profile"
)

// FieldOrder is the canonical column order of the record stream. Writers
// emit selected fields in this order regardless of how the selection was
// assembled.
var FieldOrder = []Field{
	FieldLink,
	FieldKind,
	FieldTitle,
	FieldPrice,
	FieldLocation,
	FieldDescription,
	FieldAuthor,
	FieldProfile,
}

// ParseField maps a field name to its Field, reporting whether the name
// is known. Matching is case-insensitive.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FieldOrder {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Selection is the set of fields a command was asked to populate.
// The zero value selects nothing.
type Selection struct {
	fields map[Field]bool
}

// NewSelection returns a Selection containing the given fields.
func NewSelection(fields ...Field) Selection {
	var s Selection
	for _, f := range fields {
		s = s.With(f)
	}
	return s
}

// With returns a copy of s with f added.
func (s Selection) With(f Field) Selection {
	out := Selection{fields: make(map[Field]bool, len(s.fields)+1)}
	for k := range s.fields {
		out.fields[k] = true
	}
	out.fields[f] = true
	return out
}

// Has reports whether f is selected.
func (s Selection) Has(f Field) bool {
	return s.fields[f]
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.fields) == 0
}

// Fields returns the selected fields in canonical order.
func (s Selection) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range FieldOrder {
		if s.fields[f] {
			out = append(out, f)
		}
	}
	return out
}

// String renders the selection as a comma-joined field list, for logs.
func (s Selection) String() string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

// Value returns the string form of the given field of a. Absent fields
// render as the empty string.
func (a *Ad) Value(f Field) string {
	switch f {
	case FieldLink:
		return a.Link
	case FieldKind:
		return string(a.Kind)
	case FieldTitle:
		return a.Title
	case FieldPrice:
		return a.Price.String()
	case FieldLocation:
		return a.Location
	case FieldDescription:
		return a.Description
	case FieldAuthor:
		return a.Author
	case FieldProfile:
		return a.Profile
	default:
		return ""
	}
}

// SetValue assigns the string form of a field back onto a. It is the
// inverse of Value for stream readers; an empty value leaves the field
// absent. Unknown fields are rejected so header mistakes surface early.
func (a *Ad) SetValue(f Field, v string) error {
	if v == "" {
		return nil
	}
	switch f {
	case FieldLink:
		a.Link = v
	case FieldKind:
		a.Kind = Kind(v)
	case FieldTitle:
		a.Title = v
	case FieldPrice:
		p, err := ParsePrice(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", f, err)
		}
		a.Price = p
	case FieldLocation:
		a.Location = v
	case FieldDescription:
		a.Description = v
	case FieldAuthor:
		a.Author = v
	case FieldProfile:
		a.Profile = v
	default:
		return fmt.Errorf("model: unknown field %q", f)
	}
	return nil
}
