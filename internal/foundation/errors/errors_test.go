package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestBuildErrorKinds(t *testing.T) {
	t.Run("configuration error carries messages in order", func(t *testing.T) {
		err := Configuration("first line", "second line")
		if err.Kind() != KindConfiguration {
			t.Errorf("expected kind %s, got %s", KindConfiguration, err.Kind())
		}
		msgs := err.Messages()
		if len(msgs) != 2 || msgs[0] != "first line" || msgs[1] != "second line" {
			t.Errorf("unexpected messages: %v", msgs)
		}
	})

	t.Run("wrapped cause unwraps", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapAnalysis(cause, "analysis step failed")
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to find the cause")
		}
		if err.Kind() != KindAnalysis {
			t.Errorf("expected kind %s, got %s", KindAnalysis, err.Kind())
		}
	})

	t.Run("classification through wrapping layers", func(t *testing.T) {
		inner := Configurationf("bad option %q", "-H:Nope")
		outer := fmt.Errorf("parse options: %w", inner)
		if KindOf(outer) != KindConfiguration {
			t.Errorf("expected configuration kind through wrap, got %s", KindOf(outer))
		}
		if !IsClassified(outer) {
			t.Error("expected wrapped configuration error to be classified")
		}
	})
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"configuration", Configurationf("x"), KindConfiguration},
		{"analysis", Analysisf("x"), KindAnalysis},
		{"aggregate", NewAggregate([]error{errors.New("a")}), KindAggregate},
		{"interrupt", Interrupt("stop"), KindInterrupt},
		{"plain error is fatal", errors.New("crash"), KindFatal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestInterruptReason(t *testing.T) {
	if _, ok := Interrupt("").Reason(); ok {
		t.Error("empty reason should report absent")
	}
	reason, ok := Interrupt("user requested stop").Reason()
	if !ok || reason != "user requested stop" {
		t.Errorf("unexpected reason: %q %v", reason, ok)
	}
}

func TestAggregateOrder(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")
	agg := NewAggregate([]error{a, b})
	got := agg.Errors()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("sub-failures out of order: %v", got)
	}
}
