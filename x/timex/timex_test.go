package timex

import (
	"testing"
	"time"
)

func TestMicros(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want uint64
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Nanosecond, 1},
		{20 * time.Millisecond, 20_000},
		{1500 * time.Nanosecond, 1},
	}
	for _, c := range cases {
		if got := Micros(c.in); got != c.want {
			t.Errorf("Micros(%v) = %d, want %d", c.in, got, c.want)
		}
	}
	if FromMicros(20_000) != 20*time.Millisecond {
		t.Fatal("FromMicros")
	}
}

func TestPeriodFromHz(t *testing.T) {
	if got := PeriodFromHz(50); got != 20*time.Millisecond {
		t.Fatalf("50Hz = %v", got)
	}
	if got := PeriodFromHz(0); got != time.Second {
		t.Fatalf("0Hz = %v", got)
	}
}
