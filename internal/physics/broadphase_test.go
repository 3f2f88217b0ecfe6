package physics

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func pairSet(pairs []bodyPair) map[pairKey]bool {
	out := make(map[pairKey]bool, len(pairs))
	for _, p := range pairs {
		out[makePairKey(p.a, p.b)] = true
	}
	return out
}

func TestBroadphasesAgree(t *testing.T) {
	w := NewWorld(DefaultConfig())
	testBody(t, w, NewPlane(), 0, mgl64.Vec3{}, floorQuat())
	testBody(t, w, NewBox(mgl64.Vec3{3, 0.2, 2}), 0, mgl64.Vec3{0, 1.5, 0}, mgl64.QuatIdent())
	positions := []mgl64.Vec3{
		{0, 0.2, 0},
		{0.4, 0.3, 0},
		{-2, 1.9, 1},
		{5, 5, 5},
		{5.5, 5, 5},
		{0.1, 3, -0.5},
	}
	for _, p := range positions {
		testBody(t, w, NewSphere(0.3), 1, p, mgl64.QuatIdent())
	}

	naive := (&NaiveBroadphase{}).Pairs(w.Bodies(), nil)
	sap := NewSAPBroadphase().Pairs(w.Bodies(), nil)

	want, got := pairSet(naive), pairSet(sap)
	if len(want) != len(got) {
		t.Fatalf("expected %d pairs from sap, got %d", len(want), len(got))
	}
	for k := range want {
		if !got[k] {
			t.Errorf("sap missed pair %v", k)
		}
	}
	// floor-ball0, ball0-ball1, floor-ball1, paddle-ball2, ball3-ball4
	if len(want) != 5 {
		t.Errorf("expected 5 candidate pairs, got %d", len(want))
	}
}

func TestBroadphaseSkipsStaticAndSleepingPairs(t *testing.T) {
	w := NewWorld(DefaultConfig())
	floor := testBody(t, w, NewPlane(), 0, mgl64.Vec3{}, floorQuat())
	testBody(t, w, NewBox(mgl64.Vec3{1, 1, 1}), 0, mgl64.Vec3{}, mgl64.QuatIdent())
	a := testBody(t, w, NewSphere(0.3), 1, mgl64.Vec3{0, 0.2, 3}, mgl64.QuatIdent())
	b := testBody(t, w, NewSphere(0.3), 1, mgl64.Vec3{0, 0.2, 3.4}, mgl64.QuatIdent())
	a.Sleep()
	b.Sleep()

	got := pairSet((&NaiveBroadphase{}).Pairs(w.Bodies(), nil))
	if got[makePairKey(a, b)] {
		t.Error("expected sleeping pair to be skipped")
	}
	if !got[makePairKey(a, floor)] || !got[makePairKey(b, floor)] {
		t.Error("expected sleeping bodies to keep their static contacts")
	}
	if len(got) != 2 {
		t.Errorf("expected 2 pairs, got %d", len(got))
	}
}

func TestSAPDetectsAxis(t *testing.T) {
	w := NewWorld(DefaultConfig())
	for i := 0; i < 5; i++ {
		testBody(t, w, NewSphere(0.3), 1, mgl64.Vec3{0, 0, float64(i) * 3}, mgl64.QuatIdent())
	}
	sap := NewSAPBroadphase()
	if pairs := sap.Pairs(w.Bodies(), nil); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
	if sap.Axis != 2 {
		t.Errorf("expected axis 2, got %d", sap.Axis)
	}
}

func TestNewBroadphase(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "sap", false},
		{"SAP", "sap", false},
		{"naive", "naive", false},
		{"grid", "", true},
	}
	for _, tt := range tests {
		bp, err := NewBroadphase(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownBroadphase) {
				t.Errorf("%q: expected ErrUnknownBroadphase, got %v", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.name, err)
			continue
		}
		if bp.Name() != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.name, tt.want, bp.Name())
		}
	}
}
