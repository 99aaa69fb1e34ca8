package ptable

import (
	"errors"
	"testing"
)

func TestAtomicNumber(t *testing.T) {
	tests := []struct {
		symbol string
		want   int
		found  bool
	}{
		{"X", 0, true},
		{"H", 1, true},
		{"C", 6, true},
		{"Fe", 26, true},
		{"Og", 118, true},
		{"fe", 0, false},
		{"Unobtanium", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		z, ok := AtomicNumber(tt.symbol)
		if ok != tt.found {
			t.Errorf("AtomicNumber(%q): expected found=%v, got %v", tt.symbol, tt.found, ok)
			continue
		}
		if ok && z != tt.want {
			t.Errorf("AtomicNumber(%q): expected %d, got %d", tt.symbol, tt.want, z)
		}
	}
}

func TestCovalentRadius(t *testing.T) {
	tests := []struct {
		symbol string
		want   float64
	}{
		{"H", 0.31},
		{"C", 0.76},
		{"Fe", 1.52},
		{"Ar", 1.06},
		{"X", 0.2},
		{"Og", 0.2},
	}

	for _, tt := range tests {
		r, err := CovalentRadius(tt.symbol)
		if err != nil {
			t.Errorf("CovalentRadius(%q): unexpected error: %v", tt.symbol, err)
			continue
		}
		if r != tt.want {
			t.Errorf("CovalentRadius(%q): expected %v, got %v", tt.symbol, tt.want, r)
		}
	}
}

func TestCovalentRadius_Unknown(t *testing.T) {
	_, err := CovalentRadius("Unobtanium")
	if err == nil {
		t.Fatal("Expected error for unknown symbol")
	}

	var unknownErr *UnknownElementError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected *UnknownElementError, got %T", err)
	}
	if unknownErr.Symbol != "Unobtanium" {
		t.Errorf("Expected error to carry symbol 'Unobtanium', got '%s'", unknownErr.Symbol)
	}
	if err.Error() != "unknown element symbol: Unobtanium" {
		t.Errorf("Unexpected error message: %s", err.Error())
	}
}

func TestCovalentRadius_CaseSensitive(t *testing.T) {
	if _, err := CovalentRadius("fe"); err == nil {
		t.Error("Expected lowercase 'fe' to be unknown")
	}
	if _, err := CovalentRadius("FE"); err == nil {
		t.Error("Expected uppercase 'FE' to be unknown")
	}
}

func TestCovalentRadiusByNumber(t *testing.T) {
	r, ok := CovalentRadiusByNumber(26)
	if !ok {
		t.Fatal("Expected radius for Z=26")
	}
	if r != 1.52 {
		t.Errorf("Expected radius 1.52 for Fe, got %v", r)
	}

	if _, ok := CovalentRadiusByNumber(-1); ok {
		t.Error("Expected no radius for negative atomic number")
	}
	if _, ok := CovalentRadiusByNumber(119); ok {
		t.Error("Expected no radius beyond the table")
	}
}

func TestSymbols(t *testing.T) {
	symbols := Symbols()
	if len(symbols) != 119 {
		t.Fatalf("Expected 119 symbols, got %d", len(symbols))
	}
	if symbols[0] != "X" {
		t.Errorf("Expected placeholder 'X' at index 0, got '%s'", symbols[0])
	}
	if symbols[26] != "Fe" {
		t.Errorf("Expected 'Fe' at index 26, got '%s'", symbols[26])
	}
	if symbols[118] != "Og" {
		t.Errorf("Expected 'Og' at index 118, got '%s'", symbols[118])
	}

	// Returned slice is a copy and must not alias the table
	symbols[1] = "mutated"
	if again := Symbols(); again[1] != "H" {
		t.Error("Symbols() must return a fresh copy")
	}
}

func TestTableConsistency(t *testing.T) {
	symbols := Symbols()
	for z, symbol := range symbols {
		back, ok := AtomicNumber(symbol)
		if !ok {
			t.Errorf("Symbol %q not resolvable back to an atomic number", symbol)
			continue
		}
		if back != z {
			t.Errorf("Symbol %q: expected atomic number %d, got %d", symbol, z, back)
		}
		r, ok := CovalentRadiusByNumber(z)
		if !ok {
			t.Errorf("Missing radius for Z=%d (%s)", z, symbol)
			continue
		}
		if r <= 0 {
			t.Errorf("Non-positive radius %v for Z=%d (%s)", r, z, symbol)
		}
	}
}
