package timestamp

import (
	"errors"
	"testing"

	"github.com/user/roadwatch/internal/domain"
)

func TestDecode(t *testing.T) {
	t.Run("Numeric Stem", func(t *testing.T) {
		d, err := Decode("1746581400.jpg")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if d.Time.Unix() != 1746581400 {
			t.Errorf("decoded epoch mismatch: got %d", d.Time.Unix())
		}
		if got, want := ISODate(d.Display), d.Time.Format("2006-01-02"); got != want {
			t.Errorf("ISO date: got %q, want %q", got, want)
		}
	})

	t.Run("Fractional Seconds", func(t *testing.T) {
		d, err := Decode("1746581400.5.jpeg")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if d.Time.Unix() != 1746581400 {
			t.Errorf("decoded epoch mismatch: got %d", d.Time.Unix())
		}
	})

	t.Run("Uppercase Extension", func(t *testing.T) {
		if _, err := Decode("1746581400.PNG"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Non-Numeric Stem", func(t *testing.T) {
		d, err := Decode("road-photo.jpg")
		if !errors.Is(err, domain.ErrInvalidTimestamp) {
			t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
		}
		if d.Display != domain.UnknownTimestamp {
			t.Errorf("expected sentinel display, got %q", d.Display)
		}
		if ISODate(d.Display) != "" {
			t.Errorf("sentinel should yield empty ISO date")
		}
	})

	t.Run("Unsupported Extension Keeps Suffix", func(t *testing.T) {
		// ".gif" is not stripped, so the stem is non-numeric.
		if _, err := Decode("1746581400.gif"); !errors.Is(err, domain.ErrInvalidTimestamp) {
			t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
		}
	})
}

func TestISODate(t *testing.T) {
	cases := []struct {
		name    string
		display string
		want    string
	}{
		{"Valid", "10:30:00 07/05/2025", "2025-05-07"},
		{"Sentinel", domain.UnknownTimestamp, ""},
		{"Empty", "", ""},
		{"MissingDatePart", "10:30:00", ""},
		{"MalformedDate", "10:30:00 07-05-2025", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ISODate(tc.display); got != tc.want {
				t.Errorf("ISODate(%q) = %q, want %q", tc.display, got, tc.want)
			}
		})
	}
}
