package tile

import (
	"testing"

	"github.com/kolvynathar/tilemapcore/spatial"
)

type stackOrderOnly map[uint16]int

func (m stackOrderOnly) IsGround(uint16) bool       { return false }
func (m stackOrderOnly) StackOrder(id uint16) int   { return m[id] }

func TestAddItemDirectPreservesOrder(t *testing.T) {
	tl := NewTile(spatial.New(1, 1, 7))
	a, b, c := NewItem(1), NewItem(2), NewItem(3)
	tl.AddItemDirect(a)
	tl.AddItemDirect(b)
	tl.AddItemDirect(c)
	if len(tl.Items) != 3 || tl.Items[0] != a || tl.Items[1] != b || tl.Items[2] != c {
		t.Fatalf("AddItemDirect reordered items: %v", tl.Items)
	}
}

func TestAddItemGroundPromotion(t *testing.T) {
	tl := NewTile(spatial.New(1, 1, 7))
	classifier := groundIDs{100: true}
	ground := NewItem(100)
	tl.AddItem(ground, classifier)
	if tl.Ground != ground {
		t.Fatalf("expected item 100 promoted to ground")
	}
	other := NewItem(200)
	tl.AddItem(other, classifier)
	if tl.Ground != ground || len(tl.Items) != 1 || tl.Items[0] != other {
		t.Fatalf("second item should not disturb existing ground")
	}
}

type groundIDs map[uint16]bool

func (g groundIDs) IsGround(id uint16) bool     { return g[id] }
func (g groundIDs) StackOrder(id uint16) int    { return 0 }

func TestRemoveItemsIfPreservesRelativeOrder(t *testing.T) {
	tl := NewTile(spatial.New(0, 0, 7))
	a, b, c := NewItem(1), NewItem(2), NewItem(1)
	tl.AddItemDirect(a)
	tl.AddItemDirect(b)
	tl.AddItemDirect(c)
	removed := tl.RemoveItemsIf(func(it *Item) bool { return it.ServerID == 1 })
	if removed != 2 || len(tl.Items) != 1 || tl.Items[0] != b {
		t.Fatalf("expected only b to survive, got %v (removed=%d)", tl.Items, removed)
	}
}

func TestCloneIsDeep(t *testing.T) {
	tl := NewTile(spatial.New(0, 0, 7))
	tl.Ground = NewItem(5)
	child := NewItem(6)
	tl.Ground.Container = []*Item{child}
	clone := tl.Clone()
	if clone.Ground == tl.Ground || clone.Ground.Container[0] == child {
		t.Fatalf("expected deep clone, got aliased pointers")
	}
	if clone.Ground.Handle() == tl.Ground.Handle() {
		t.Fatalf("expected clone to receive a fresh handle")
	}
}
