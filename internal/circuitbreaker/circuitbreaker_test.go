package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream down")

// TestBreaker_OpensAfterThreshold verifies that the breaker trips open once
// consecutive failures reach FailureThreshold and then rejects calls without
// running them.
func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New(Config{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		if err := b.Do(func() error { return errUpstream }); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d: err = %v, want errUpstream", i, err)
		}
	}
	if got := b.State(); got != StateOpen {
		t.Fatalf("State() = %v, want open", got)
	}

	ran := false
	err := b.Do(func() error { ran = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("err = %v, want ErrOpen", err)
	}
	if ran {
		t.Error("fn ran while breaker open")
	}
}

// TestBreaker_SuccessResetsFailureCount verifies that a success between
// failures prevents the breaker from tripping.
func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New(Config{FailureThreshold: 2, Cooldown: time.Minute})

	_ = b.Do(func() error { return errUpstream })
	_ = b.Do(func() error { return nil })
	_ = b.Do(func() error { return errUpstream })

	if got := b.State(); got != StateClosed {
		t.Errorf("State() = %v, want closed", got)
	}
}

// TestBreaker_ClassifierFiltersErrors verifies that errors rejected by the
// IsFailure classifier never count toward the threshold.
func TestBreaker_ClassifierFiltersErrors(t *testing.T) {
	errClientSide := errors.New("bad request")
	b := New(Config{
		FailureThreshold: 2,
		Cooldown:         time.Minute,
		IsFailure:        func(err error) bool { return errors.Is(err, errUpstream) },
	})

	for i := 0; i < 10; i++ {
		if err := b.Do(func() error { return errClientSide }); !errors.Is(err, errClientSide) {
			t.Fatalf("call %d: err = %v, want errClientSide", i, err)
		}
	}
	if got := b.State(); got != StateClosed {
		t.Fatalf("State() = %v after uncounted errors, want closed", got)
	}

	_ = b.Do(func() error { return errUpstream })
	_ = b.Do(func() error { return errUpstream })
	if got := b.State(); got != StateOpen {
		t.Errorf("State() = %v after counted errors, want open", got)
	}
}

// TestBreaker_HalfOpenProbeFailureReopens verifies that after the cooldown the
// breaker lets one probe through, and that a failed probe reopens it at once.
func TestBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	b := New(Config{FailureThreshold: 1, SuccessThreshold: 2, Cooldown: 30 * time.Second})
	base := time.Now()
	b.now = func() time.Time { return base }

	_ = b.Do(func() error { return errUpstream })
	if got := b.State(); got != StateOpen {
		t.Fatalf("State() = %v, want open", got)
	}

	// Still cooling down: rejected without running.
	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrOpen) {
		t.Fatalf("during cooldown: err = %v, want ErrOpen", err)
	}

	b.now = func() time.Time { return base.Add(31 * time.Second) }
	err := b.Do(func() error { return errUpstream })
	if !errors.Is(err, errUpstream) {
		t.Fatalf("probe err = %v, want errUpstream", err)
	}
	if got := b.State(); got != StateOpen {
		t.Errorf("State() after failed probe = %v, want open", got)
	}
}

// TestBreaker_ClosesAfterSuccessThreshold verifies that the breaker closes
// again only after SuccessThreshold consecutive half-open successes.
func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New(Config{FailureThreshold: 1, SuccessThreshold: 2, Cooldown: 30 * time.Second})
	base := time.Now()
	b.now = func() time.Time { return base }

	_ = b.Do(func() error { return errUpstream })

	b.now = func() time.Time { return base.Add(time.Minute) }
	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("first probe err = %v", err)
	}
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("State() after one success = %v, want half_open", got)
	}

	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("second probe err = %v", err)
	}
	if got := b.State(); got != StateClosed {
		t.Errorf("State() after two successes = %v, want closed", got)
	}
}

// TestBreaker_OnStateChange verifies that the transition hook reports the
// states the breaker leaves and enters.
func TestBreaker_OnStateChange(t *testing.T) {
	type change struct{ from, to State }
	ch := make(chan change, 4)
	b := New(Config{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
		OnStateChange:    func(from, to State) { ch <- change{from, to} },
	})

	_ = b.Do(func() error { return errUpstream })

	select {
	case got := <-ch:
		if got.from != StateClosed || got.to != StateOpen {
			t.Errorf("transition = %v -> %v, want closed -> open", got.from, got.to)
		}
	case <-time.After(time.Second):
		t.Fatal("no transition reported")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half_open"},
		{State(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
