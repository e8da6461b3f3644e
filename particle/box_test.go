package particle

import (
	"testing"

	"github.com/nzeal/picongpu/grid"
)

func TestBoxChainAppendOrder(t *testing.T) {
	pool := NewPool(8, 4, nil)
	box := NewBox(pool, grid.Idx3{X: 2, Y: 2, Z: 2})
	sc := grid.Idx3{X: 1, Y: 0, Z: 1}

	if box.LastFrame(sc) != Invalid {
		t.Fatal("expected empty chain before any append")
	}
	if box.FrameCount(sc) != 0 {
		t.Fatal("expected zero frame count before any append")
	}

	var appended []ID
	for i := 0; i < 3; i++ {
		id, err := box.GetEmptyFrame()
		if err != nil {
			t.Fatalf("unexpected alloc error: %v", err)
		}
		box.SetAsLastFrame(id, sc)
		appended = append(appended, id)
	}

	if got := box.FrameCount(sc); got != 3 {
		t.Errorf("expected 3 frames, got %d", got)
	}
	if got := box.LastFrame(sc); got != appended[2] {
		t.Errorf("expected last frame %d, got %d", appended[2], got)
	}

	ids := box.Frames(sc)
	if len(ids) != 3 {
		t.Fatalf("expected 3 chained frames, got %d", len(ids))
	}
	for i, id := range ids {
		if id != appended[i] {
			t.Errorf("chain position %d: expected %d, got %d", i, appended[i], id)
		}
	}
}

func TestBoxChainsIndependent(t *testing.T) {
	pool := NewPool(8, 4, nil)
	box := NewBox(pool, grid.Idx3{X: 2, Y: 2, Z: 2})

	a := grid.Idx3{X: 0, Y: 0, Z: 0}
	b := grid.Idx3{X: 1, Y: 1, Z: 1}

	idA, _ := box.GetEmptyFrame()
	box.SetAsLastFrame(idA, a)
	idB, _ := box.GetEmptyFrame()
	box.SetAsLastFrame(idB, b)

	if box.FrameCount(a) != 1 || box.FrameCount(b) != 1 {
		t.Error("expected one frame per supercell")
	}
	if box.LastFrame(a) == box.LastFrame(b) {
		t.Error("expected distinct frames for distinct supercells")
	}
}

func TestBoxActiveCount(t *testing.T) {
	pool := NewPool(4, 4, nil)
	box := NewBox(pool, grid.Idx3{X: 1, Y: 1, Z: 1})
	sc := grid.Idx3{X: 0, Y: 0, Z: 0}

	for i := 0; i < 2; i++ {
		id, _ := box.GetEmptyFrame()
		box.SetAsLastFrame(id, sc)
		frame := box.Frame(id)
		for slot := 0; slot <= i; slot++ {
			frame.Record(slot).Activate()
		}
	}

	// First frame has 1 active slot, second has 2.
	if got := box.ActiveCount(sc); got != 3 {
		t.Errorf("expected 3 active particles across the chain, got %d", got)
	}
}
