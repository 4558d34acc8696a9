package model

import "testing"

func TestParseField(t *testing.T) {
	t.Parallel()

	for _, f := range FieldOrder {
		got, ok := ParseField(string(f))
		if !ok || got != f {
			t.Errorf("ParseField(%q) = %q, %v", f, got, ok)
		}
	}
	if got, ok := ParseField("  TITLE "); !ok || got != FieldTitle {
		t.Errorf("ParseField with case and spaces = %q, %v", got, ok)
	}
	if _, ok := ParseField("color"); ok {
		t.Error("ParseField accepted an unknown field")
	}
}

func TestSelection(t *testing.T) {
	t.Parallel()

	t.Run("zero value selects nothing", func(t *testing.T) {
		t.Parallel()
		var s Selection
		if !s.IsEmpty() {
			t.Error("IsEmpty() = false for zero value")
		}
		if s.Has(FieldLink) {
			t.Error("Has(link) = true for zero value")
		}
	})

	t.Run("fields come back in canonical order", func(t *testing.T) {
		t.Parallel()
		s := NewSelection(FieldPrice, FieldLink, FieldTitle)
		fields := s.Fields()
		want := []Field{FieldLink, FieldTitle, FieldPrice}
		if len(fields) != len(want) {
			t.Fatalf("Fields() = %v", fields)
		}
		for i := range want {
			if fields[i] != want[i] {
				t.Errorf("Fields()[%d] = %q, want %q", i, fields[i], want[i])
			}
		}
		if got := s.String(); got != "link,title,price" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("With does not mutate the receiver", func(t *testing.T) {
		t.Parallel()
		base := NewSelection(FieldLink)
		extended := base.With(FieldTitle)
		if base.Has(FieldTitle) {
			t.Error("With mutated the receiver")
		}
		if !extended.Has(FieldTitle) || !extended.Has(FieldLink) {
			t.Errorf("extended selection wrong: %s", extended)
		}
	})
}

func TestAdValueSetValue(t *testing.T) {
	t.Parallel()

	ad := &Ad{
		Link:        "https://www.olx.pl/d/oferta/a-ID1.html",
		Kind:        KindRent,
		Title:       "Mieszkanie",
		Price:       &Price{Amount: 2000, Currency: "zł"},
		Location:    "Poznań",
		Description: "Dwa pokoje",
		Author:      "Jan",
		Profile:     "https://www.olx.pl/oferty/uzytkownik/x/",
	}

	// Every field round-trips through its string form.
	for _, f := range FieldOrder {
		v := ad.Value(f)
		if v == "" {
			t.Fatalf("Value(%q) = empty for populated ad", f)
		}
		var back Ad
		if err := back.SetValue(f, v); err != nil {
			t.Fatalf("SetValue(%q, %q) error: %v", f, v, err)
		}
		if got := back.Value(f); got != v {
			t.Errorf("round trip of %q: %q != %q", f, got, v)
		}
	}

	t.Run("empty value leaves field absent", func(t *testing.T) {
		t.Parallel()
		var a Ad
		if err := a.SetValue(FieldPrice, ""); err != nil {
			t.Fatalf("SetValue() error: %v", err)
		}
		if a.Price != nil {
			t.Errorf("Price = %v, want nil", a.Price)
		}
	})

	t.Run("bad price value is rejected", func(t *testing.T) {
		t.Parallel()
		var a Ad
		if err := a.SetValue(FieldPrice, "not a price"); err == nil {
			t.Error("SetValue() error = nil, want parse error")
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()
		var a Ad
		if err := a.SetValue(Field("color"), "red"); err == nil {
			t.Error("SetValue() error = nil, want unknown field error")
		}
	})

	t.Run("nil price renders empty", func(t *testing.T) {
		t.Parallel()
		a := &Ad{Link: "x"}
		if got := a.Value(FieldPrice); got != "" {
			t.Errorf("Value(price) = %q, want empty", got)
		}
	})
}
