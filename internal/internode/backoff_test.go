package internode

import (
	"testing"
	"time"
)

func TestLinearBackOff_Sequence(t *testing.T) {
	bo := newLinearBackOff(60 * time.Second)

	want := []time.Duration{
		60 * time.Second,
		120 * time.Second,
		180 * time.Second,
		240 * time.Second,
	}
	for i, w := range want {
		if got := bo.NextBackOff(); got != w {
			t.Errorf("NextBackOff() #%d = %v, want %v", i+1, got, w)
		}
	}
}

func TestLinearBackOff_Reset(t *testing.T) {
	bo := newLinearBackOff(10 * time.Second)

	bo.NextBackOff()
	bo.NextBackOff()
	bo.Reset()

	if got := bo.NextBackOff(); got != 10*time.Second {
		t.Errorf("NextBackOff() after Reset = %v, want 10s", got)
	}
}
