package physics

import (
	"math"
	"testing"

	"github.com/san-kum/dpend/internal/dynamo"
)

func newTestPendulum(t *testing.T, p dynamo.Params) *DoublePendulum {
	t.Helper()
	acc, err := Derive()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	return NewDoublePendulum(acc, p)
}

func TestDoublePendulumEnergyAtRest(t *testing.T) {
	dp := newTestPendulum(t, dynamo.DefaultParams())

	// Hanging straight down: y1 = -1, y2 = -2.
	want := 9.81 * (1*-1 + 1*-2)
	if got := dp.Energy(dynamo.State{}); math.Abs(got-want) > 1e-12 {
		t.Errorf("energy at rest = %v, want %v", got, want)
	}
	if got := dp.Kinetic(dynamo.State{}); got != 0 {
		t.Errorf("kinetic energy at rest = %v", got)
	}
}

func TestDoublePendulumKinetic(t *testing.T) {
	dp := newTestPendulum(t, dynamo.Params{M1: 2, M2: 3, G: 9.81})

	// Rods aligned, equal angular velocity: bob 2 moves twice as fast.
	x := dynamo.State{0.4, 1.5, 0.4, 1.5}
	want := 0.5*2*1.5*1.5 + 0.5*3*3*3
	if got := dp.Kinetic(x); math.Abs(got-want) > 1e-12 {
		t.Errorf("kinetic = %v, want %v", got, want)
	}
}

func TestDoublePendulumDerivative(t *testing.T) {
	dp := newTestPendulum(t, dynamo.DefaultParams())
	x := dynamo.State{0.3, 0.7, -0.2, 1.1}

	dx := dp.Derivative(x)
	if dx[dynamo.Theta1] != x[dynamo.Omega1] || dx[dynamo.Theta2] != x[dynamo.Omega2] {
		t.Errorf("angle derivatives %v do not equal velocities %v", dx, x)
	}

	buf := make([]float64, 4)
	dp.Field()(0, x[:], buf)
	for i := range buf {
		if buf[i] != dx[i] {
			t.Errorf("Field()[%d] = %v, Derivative()[%d] = %v", i, buf[i], i, dx[i])
		}
	}
}

// Energy must be stationary along the flow: dE/dt = ∇E · f = 0.
func TestDoublePendulumEnergyIsFirstIntegral(t *testing.T) {
	dp := newTestPendulum(t, dynamo.Params{M1: 1.3, M2: 0.7, G: 9.81})
	x := dynamo.State{2.2, -1.1, 0.5, 2.4}
	dx := dp.Derivative(x)

	const h = 1e-6
	dE := 0.0
	for i := range x {
		xp, xm := x, x
		xp[i] += h
		xm[i] -= h
		dE += (dp.Energy(xp) - dp.Energy(xm)) / (2 * h) * dx[i]
	}

	if math.Abs(dE) > 1e-6 {
		t.Errorf("dE/dt = %g, want 0", dE)
	}
}

func TestSmallAnglePeriod(t *testing.T) {
	if got := SmallAnglePeriod(9.81); math.Abs(got-2.006) > 1e-3 {
		t.Errorf("period = %v, want ~2.006", got)
	}
}

func TestNormalModes(t *testing.T) {
	slow, fast := NormalModes(dynamo.DefaultParams())
	if math.Abs(slow*slow-9.81*(2-math.Sqrt2)) > 1e-9 {
		t.Errorf("slow mode ω² = %v", slow*slow)
	}
	if math.Abs(fast*fast-9.81*(2+math.Sqrt2)) > 1e-9 {
		t.Errorf("fast mode ω² = %v", fast*fast)
	}
}
