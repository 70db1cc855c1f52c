package jobs

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	cases := map[int]time.Duration{
		1:  2 * time.Second,
		3:  8 * time.Second,
		9:  512 * time.Second,
		10: 600 * time.Second,
		20: 600 * time.Second,
	}
	for attempts, want := range cases {
		if got := backoff(attempts); got != want {
			t.Errorf("backoff(%d) = %v, want %v", attempts, got, want)
		}
	}
}
