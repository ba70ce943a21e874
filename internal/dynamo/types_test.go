package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"zeros", State{}, true},
		{"normal", State{1.0, 2.0, 3.0, 4.0}, true},
		{"with NaN", State{1.0, math.NaN(), 0, 0}, false},
		{"with +Inf", State{1.0, math.Inf(1), 0, 0}, false},
		{"with -Inf", State{0, 0, 0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4, 0, 0}, 5.0},
		{State{0, 0, 0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Wrapped(t *testing.T) {
	s := State{4*math.Pi + 0.5, 7, -2*math.Pi - 1, 8}
	w := s.Wrapped()

	if math.Abs(w[Theta1]-0.5) > 1e-12 {
		t.Errorf("theta1 wrapped to %v, want 0.5", w[Theta1])
	}
	if math.Abs(w[Theta2]+1) > 1e-12 {
		t.Errorf("theta2 wrapped to %v, want -1", w[Theta2])
	}
	if w[Omega1] != 7 || w[Omega2] != 8 {
		t.Errorf("velocities changed: %v", w)
	}
	if s[Theta1] != 4*math.Pi+0.5 {
		t.Error("Wrapped modified the receiver")
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		field  string
	}{
		{"defaults", DefaultParams(), ""},
		{"zero m1", Params{M1: 0, M2: 1, G: 9.81}, "m1"},
		{"negative m2", Params{M1: 1, M2: -1, G: 9.81}, "m2"},
		{"zero gravity", Params{M1: 1, M2: 1, G: 0}, "g"},
		{"NaN mass", Params{M1: math.NaN(), M2: 1, G: 9.81}, "m1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %s, want %s", cfgErr.Field, tt.field)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Error("ConfigError does not match ErrConfiguration")
			}
		})
	}
}

func TestPositionOf(t *testing.T) {
	p := PositionOf(State{0, 0, 0, 0})
	if p.X1 != 0 || p.Y1 != -1 || p.X2 != 0 || p.Y2 != -2 {
		t.Errorf("hanging position = %+v", p)
	}

	p = PositionOf(State{math.Pi / 2, 0, math.Pi, 0})
	if math.Abs(p.X1-1) > 1e-12 || math.Abs(p.Y1) > 1e-12 {
		t.Errorf("bob 1 = (%v, %v), want (1, 0)", p.X1, p.Y1)
	}
	if math.Abs(p.X2-1) > 1e-12 || math.Abs(p.Y2-1) > 1e-12 {
		t.Errorf("bob 2 = (%v, %v), want (1, 1)", p.X2, p.Y2)
	}
}

func TestIntegrationError(t *testing.T) {
	err := &IntegrationError{Step: 150, Time: 1.5, Wrapped: ErrStepTooSmall}
	expected := "dynamo: integration failed at step 150 (t=1.500000): dynamo: adaptive timestep below minimum"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrIntegration) {
		t.Error("expected errors.Is(err, ErrIntegration)")
	}
	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("expected errors.Is(err, ErrStepTooSmall)")
	}
}

func TestAccelerationsField(t *testing.T) {
	acc := Accelerations{
		Theta1: func(th1, th2, w1, w2, m1, m2, g float64) float64 { return -g * th1 },
		Theta2: func(th1, th2, w1, w2, m1, m2, g float64) float64 { return m2 * th2 },
	}
	f := acc.Field(Params{M1: 1, M2: 2, G: 10})

	dy := make([]float64, 4)
	f(0, []float64{0.5, 3, 0.25, 4}, dy)

	want := []float64{3, -5, 4, 0.5}
	for i := range want {
		if dy[i] != want[i] {
			t.Errorf("dy[%d] = %v, want %v", i, dy[i], want[i])
		}
	}
}
