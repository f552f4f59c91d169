package scraper

import "testing"

func TestNormalizeDay_LetterCodes(t *testing.T) {
	cases := map[string]string{
		"L": "Lunes",
		"K": "Martes",
		"M": "Miércoles",
		"J": "Jueves",
		"V": "Viernes",
		"S": "Sábado",
		"D": "Domingo",
	}
	for code, want := range cases {
		if got := NormalizeDay(code); got != want {
			t.Errorf("NormalizeDay(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestNormalizeDay_FullNames(t *testing.T) {
	cases := map[string]string{
		"Lunes":     "Lunes",
		"miercoles": "Miércoles",
		"MIÉRCOLES": "Miércoles",
		"sábado":    "Sábado",
		"Sabado":    "Sábado",
	}
	for raw, want := range cases {
		if got := NormalizeDay(raw); got != want {
			t.Errorf("NormalizeDay(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeDay_Unknown(t *testing.T) {
	for _, raw := range []string{"", "X", "Feriado", "lun"} {
		if got := NormalizeDay(raw); got != "" {
			t.Errorf("NormalizeDay(%q) = %q, want empty", raw, got)
		}
	}
}

func TestNormalizeTimeParts(t *testing.T) {
	cases := []struct {
		hour, minute string
		want         string
		ok           bool
	}{
		{"7", "30", "07:30", true},
		{"18", "0", "18:00", true},
		{"0", "0", "00:00", true},
		{"23", "59", "23:59", true},
		{"24", "00", "", false},
		{"12", "60", "", false},
		{"", "30", "", false},
		{"aa", "30", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeTimeParts(tc.hour, tc.minute)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeTimeParts(%q, %q) = (%q, %v), want (%q, %v)",
				tc.hour, tc.minute, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	if got := NormalizeWhitespace("  Bases   de\t Datos \n"); got != "Bases de Datos" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}
	if got := NormalizeWhitespace(""); got != "" {
		t.Errorf("NormalizeWhitespace(empty) = %q", got)
	}
}

func TestNormalizeComparable(t *testing.T) {
	if got := NormalizeComparable("  CÓDIGO  Curso "); got != "codigo curso" {
		t.Errorf("NormalizeComparable = %q", got)
	}
	if got := NormalizeComparable("Miércoles"); got != "miercoles" {
		t.Errorf("NormalizeComparable = %q", got)
	}
}

func TestParseInteger(t *testing.T) {
	cases := []struct {
		in       string
		fallback int
		want     int
	}{
		{"4", 0, 4},
		{" 25 estudiantes", 0, 25},
		{"-3", 0, -3},
		{"", 7, 7},
		{"N/A", 7, 7},
	}
	for _, tc := range cases {
		if got := ParseInteger(tc.in, tc.fallback); got != tc.want {
			t.Errorf("ParseInteger(%q, %d) = %d, want %d", tc.in, tc.fallback, got, tc.want)
		}
	}
}

func TestParseReserved(t *testing.T) {
	truthy := []string{"1", "Si", "SÍ", "s", "true"}
	for _, in := range truthy {
		if !ParseReserved(in) {
			t.Errorf("ParseReserved(%q) = false, want true", in)
		}
	}
	falsy := []string{"", "0", "no", "2", "reservado"}
	for _, in := range falsy {
		if ParseReserved(in) {
			t.Errorf("ParseReserved(%q) = true, want false", in)
		}
	}
}
