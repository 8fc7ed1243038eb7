package dungeon

import (
	"math/rand"
	"testing"

	"github.com/nathoo/bossfight/types"
)

func isCornerPair(a, b types.Coord) bool {
	for _, p := range CornerPairs {
		if p[0] == a && p[1] == b {
			return true
		}
	}
	return false
}

func TestGenerate_LayoutRules(t *testing.T) {
	src := rand.New(rand.NewSource(123))
	for i := 0; i < 500; i++ {
		l := Generate(src)

		if !isCornerPair(l.PlayerA, l.PlayerB) {
			t.Fatalf("layout %d: spawns %+v/%+v are not a corner pair", i, l.PlayerA, l.PlayerB)
		}
		if l.Boss == l.PlayerA || l.Boss == l.PlayerB {
			t.Fatalf("layout %d: boss spawned on an adventurer", i)
		}
		if l.Blocked[0] == l.Blocked[1] {
			t.Fatalf("layout %d: blocked cells are identical", i)
		}
		for _, b := range l.Blocked {
			if b == l.PlayerA || b == l.PlayerB || b == l.Boss {
				t.Fatalf("layout %d: blocked cell %+v overlaps a spawn", i, b)
			}
		}
		seen := Reachable(l.PlayerA, l.Blocked[:])
		if !seen[l.PlayerB] || !seen[l.Boss] {
			t.Fatalf("layout %d: spawns not mutually reachable", i)
		}
	}
}

func TestConnected_DetectsCutOff(t *testing.T) {
	// Boss in the A1 corner walled off by A2 and B1.
	l := types.Layout{
		PlayerA: types.Coord{Row: 4, Col: 4},
		PlayerB: types.Coord{Row: 4, Col: 3},
		Boss:    types.Coord{Row: 0, Col: 0},
		Blocked: [2]types.Coord{{Row: 0, Col: 1}, {Row: 1, Col: 0}},
	}
	if Connected(l) {
		t.Error("expected boss to be unreachable")
	}

	l.Blocked = [2]types.Coord{{Row: 2, Col: 2}, {Row: 3, Col: 3}}
	if !Connected(l) {
		t.Error("expected open layout to be connected")
	}
}

func TestLabels_RoundTrip(t *testing.T) {
	l := Generate(rand.New(rand.NewSource(9)))
	back, err := FromLabels(Labels(l))
	if err != nil {
		t.Fatal(err)
	}
	if back != l {
		t.Errorf("round trip = %+v, want %+v", back, l)
	}
	if _, err := FromLabels(types.LayoutLabels{PlayerA: "Z9"}); err == nil {
		t.Error("expected error for bad label")
	}
}
