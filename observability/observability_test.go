package observability

import (
	"errors"
	"testing"
)

func TestFields(t *testing.T) {
	cases := []struct {
		field Field
		key   string
		value interface{}
	}{
		{String("s", "v"), "s", "v"},
		{Int("n", 7), "n", 7},
		{Float64("f", 0.5), "f", 0.5},
	}
	for _, c := range cases {
		if c.field.Key() != c.key {
			t.Errorf("Key() = %q, want %q", c.field.Key(), c.key)
		}
		if c.field.Value() != c.value {
			t.Errorf("Value() = %v, want %v", c.field.Value(), c.value)
		}
	}

	err := errors.New("boom")
	f := Error("error", err)
	if f.Value() != err {
		t.Errorf("error field Value() = %v, want the wrapped error", f.Value())
	}
}

func TestNopLogger(t *testing.T) {
	var log Logger = NopLogger{}
	log = log.With(String("component", "test"))
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error", Error("error", errors.New("boom")))
}
