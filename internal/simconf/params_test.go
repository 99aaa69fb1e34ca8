package simconf

import (
	"errors"
	"math"
	"testing"

	"github.com/mdprep/mdprep/internal/ptable"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

func radiusOf(t *testing.T, symbol string) float64 {
	t.Helper()
	r, err := ptable.CovalentRadius(symbol)
	if err != nil {
		t.Fatalf("radius lookup for %s failed: %v", symbol, err)
	}
	return r
}

func TestDeriveLJParams_TwoElements(t *testing.T) {
	params, err := DeriveLJParams([]string{"Fe", "C"}, DefaultEpsilon, DefaultCutoffFactor)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rAvg := (radiusOf(t, "Fe") + radiusOf(t, "C")) / 2
	wantSigma := 2 * rAvg * math.Pow(2, -1.0/6.0)

	if params.Epsilon != 1.0 {
		t.Errorf("Expected epsilon 1.0, got %v", params.Epsilon)
	}
	if !almostEqual(params.Sigma, wantSigma) {
		t.Errorf("Expected sigma %v, got %v", wantSigma, params.Sigma)
	}
	if !almostEqual(params.Cutoff, wantSigma*2.5) {
		t.Errorf("Expected cutoff %v, got %v", wantSigma*2.5, params.Cutoff)
	}
}

func TestDeriveLJParams_SingleElement(t *testing.T) {
	params, err := DeriveLJParams([]string{"Ar"}, DefaultEpsilon, DefaultCutoffFactor)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantSigma := 2 * radiusOf(t, "Ar") * math.Pow(2, -1.0/6.0)
	if !almostEqual(params.Sigma, wantSigma) {
		t.Errorf("Expected sigma %v, got %v", wantSigma, params.Sigma)
	}
	if !almostEqual(params.Cutoff, wantSigma*2.5) {
		t.Errorf("Expected cutoff %v, got %v", wantSigma*2.5, params.Cutoff)
	}
}

func TestDeriveLJParams_NoElements(t *testing.T) {
	_, err := DeriveLJParams(nil, DefaultEpsilon, DefaultCutoffFactor)
	if !errors.Is(err, ErrNoElements) {
		t.Fatalf("Expected ErrNoElements, got %v", err)
	}

	_, err = DeriveLJParams([]string{}, DefaultEpsilon, DefaultCutoffFactor)
	if !errors.Is(err, ErrNoElements) {
		t.Fatalf("Expected ErrNoElements for empty slice, got %v", err)
	}
}

func TestDeriveLJParams_UnknownElement(t *testing.T) {
	_, err := DeriveLJParams([]string{"Fe", "Unobtanium"}, DefaultEpsilon, DefaultCutoffFactor)
	if err == nil {
		t.Fatal("Expected error for unknown element")
	}

	var unknownErr *ptable.UnknownElementError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected *ptable.UnknownElementError, got %T", err)
	}
	if unknownErr.Symbol != "Unobtanium" {
		t.Errorf("Expected error to name 'Unobtanium', got '%s'", unknownErr.Symbol)
	}
}

func TestDeriveLJParams_DuplicatesWeightAverage(t *testing.T) {
	rFe := radiusOf(t, "Fe")
	rC := radiusOf(t, "C")

	params, err := DeriveLJParams([]string{"Fe", "Fe", "C"}, DefaultEpsilon, DefaultCutoffFactor)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rAvg := (2*rFe + rC) / 3
	wantSigma := 2 * rAvg * math.Pow(2, -1.0/6.0)
	if !almostEqual(params.Sigma, wantSigma) {
		t.Errorf("Expected duplicate-weighted sigma %v, got %v", wantSigma, params.Sigma)
	}
}

func TestDeriveLJParams_OrderIndependent(t *testing.T) {
	a, err := DeriveLJParams([]string{"Fe", "C", "H"}, DefaultEpsilon, DefaultCutoffFactor)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b, err := DeriveLJParams([]string{"H", "Fe", "C"}, DefaultEpsilon, DefaultCutoffFactor)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !almostEqual(a.Sigma, b.Sigma) || !almostEqual(a.Cutoff, b.Cutoff) {
		t.Errorf("Expected order-independent result, got %+v vs %+v", a, b)
	}
}

func TestDeriveLJParams_Deterministic(t *testing.T) {
	first, err := DeriveLJParams([]string{"Si", "O"}, DefaultEpsilon, DefaultCutoffFactor)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := DeriveLJParams([]string{"Si", "O"}, DefaultEpsilon, DefaultCutoffFactor)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if again != first {
			t.Fatalf("Expected identical results, got %+v vs %+v", again, first)
		}
	}
}

func TestDeriveLJParams_CustomEpsilonAndCutoff(t *testing.T) {
	params, err := DeriveLJParams([]string{"Cu"}, 0.25, 3.0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if params.Epsilon != 0.25 {
		t.Errorf("Expected epsilon to pass through as 0.25, got %v", params.Epsilon)
	}
	if !almostEqual(params.Cutoff, params.Sigma*3.0) {
		t.Errorf("Expected cutoff = sigma * 3.0, got sigma=%v cutoff=%v", params.Sigma, params.Cutoff)
	}
}

func TestDefaultLJParams(t *testing.T) {
	params, err := DefaultLJParams([]string{"Fe", "C"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Epsilon != DefaultEpsilon {
		t.Errorf("Expected default epsilon %v, got %v", DefaultEpsilon, params.Epsilon)
	}
	if !almostEqual(params.Cutoff, params.Sigma*DefaultCutoffFactor) {
		t.Errorf("Expected cutoff = sigma * %v, got sigma=%v cutoff=%v", DefaultCutoffFactor, params.Sigma, params.Cutoff)
	}
}
