package physics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/dpend/internal/dynamo"
)

func TestDeriveMatchesClosedForm(t *testing.T) {
	acc, err := Derive()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	ref := ClosedForm()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		x := dynamo.State{
			(rng.Float64() - 0.5) * 4 * math.Pi,
			(rng.Float64() - 0.5) * 20,
			(rng.Float64() - 0.5) * 4 * math.Pi,
			(rng.Float64() - 0.5) * 20,
		}
		p := dynamo.Params{
			M1: 0.1 + rng.Float64()*5,
			M2: 0.1 + rng.Float64()*5,
			G:  1 + rng.Float64()*20,
		}

		a1, a2 := acc.Eval(x, p)
		r1, r2 := ref.Eval(x, p)

		scale := 1 + math.Abs(r1) + math.Abs(r2)
		if math.Abs(a1-r1) > 1e-10*scale || math.Abs(a2-r2) > 1e-10*scale {
			t.Fatalf("state %v params %+v: derived (%g, %g), closed form (%g, %g)", x, p, a1, a2, r1, r2)
		}
	}
}

func TestDeriveEquilibrium(t *testing.T) {
	acc, err := Derive()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	a1, a2 := acc.Eval(dynamo.State{0, 0, 0, 0}, dynamo.DefaultParams())
	if a1 != 0 || a2 != 0 {
		t.Errorf("expected zero accelerations at rest, got (%g, %g)", a1, a2)
	}
}

func TestDeriveSymmetry(t *testing.T) {
	acc, err := Derive()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	p := dynamo.DefaultParams()

	a1, a2 := acc.Eval(dynamo.State{0.1, 0.3, 0.1, -0.2}, p)
	b1, b2 := acc.Eval(dynamo.State{-0.1, -0.3, -0.1, 0.2}, p)

	if math.Abs(a1+b1) > 1e-12 {
		t.Errorf("expected antisymmetric alpha1: %g vs %g", a1, b1)
	}
	if math.Abs(a2+b2) > 1e-12 {
		t.Errorf("expected antisymmetric alpha2: %g vs %g", a2, b2)
	}
}

func TestDeriveIsPure(t *testing.T) {
	acc, err := Derive()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	p := dynamo.DefaultParams()
	x := dynamo.State{2.1, -0.4, -1.3, 3.3}

	a1, a2 := acc.Eval(x, p)
	for i := 0; i < 10; i++ {
		b1, b2 := acc.Eval(x, p)
		if a1 != b1 || a2 != b2 {
			t.Fatalf("call %d: got (%v, %v), first call (%v, %v)", i, b1, b2, a1, a2)
		}
	}
}

func TestDeriveChainRejectsDegenerateRods(t *testing.T) {
	tests := []struct {
		name   string
		l1, l2 float64
	}{
		{"zero inner rod", 0, 1},
		{"negative outer rod", 1, -1},
		{"NaN rod", math.NaN(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deriveChain(tt.l1, tt.l2)
			if !errors.Is(err, dynamo.ErrDerivation) {
				t.Fatalf("expected ErrDerivation, got %v", err)
			}
			var derr *dynamo.DerivationError
			if !errors.As(err, &derr) {
				t.Fatalf("expected *DerivationError, got %T", err)
			}
		})
	}
}

func TestLagrangianUniqueness(t *testing.T) {
	lg := newLagrangian(1, 1)
	if err := lg.checkUnique(); err != nil {
		t.Fatalf("unit rods rejected: %v", err)
	}

	// A bob-free inner rod would make M singular when the rods align.
	lg.carried[0] = lg.carried[1]
	if err := lg.checkUnique(); !errors.Is(err, dynamo.ErrDerivation) {
		t.Errorf("expected ErrDerivation for singular mass matrix, got %v", err)
	}

	lg = newLagrangian(1, 1)
	lg.carried[1] = massForm{}
	if err := lg.checkUnique(); !errors.Is(err, dynamo.ErrDerivation) {
		t.Errorf("expected ErrDerivation for massless outer rod, got %v", err)
	}
}

func TestMassFormPositive(t *testing.T) {
	tests := []struct {
		form massForm
		want bool
	}{
		{massForm{1, 0}, true},
		{massForm{0, 1}, true},
		{massForm{1, 1}, true},
		{massForm{0, 0}, false},
		{massForm{1, -1}, false},
	}

	for _, tt := range tests {
		if got := tt.form.positive(); got != tt.want {
			t.Errorf("%+v.positive() = %v, want %v", tt.form, got, tt.want)
		}
	}
}

func TestCarriedMass(t *testing.T) {
	lg := newLagrangian(1, 1)
	if got := lg.carried[0].eval(2, 3); got != 5 {
		t.Errorf("inner rod carries %v, want 5", got)
	}
	if got := lg.carried[1].eval(2, 3); got != 3 {
		t.Errorf("outer rod carries %v, want 3", got)
	}
}
