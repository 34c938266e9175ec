package itemdb

import "testing"

func sampleTable() *Table {
	return New([]ItemType{
		{ServerID: 100, ClientID: 1000, Name: "grass", Group: GroupGround},
		{ServerID: 200, ClientID: 2000, Name: "wooden chest", Group: GroupContainer},
		{ServerID: 300, ClientID: 3000, Name: "fire sword", Group: GroupWeapon, Weapon: WeaponSword, Moveable: true},
	})
}

func TestLookupByServerAndClientID(t *testing.T) {
	tbl := sampleTable()
	it, ok := tbl.Lookup(200)
	if !ok || it.Name != "wooden chest" {
		t.Fatalf("Lookup(200) = %+v, %v", it, ok)
	}
	it, ok = tbl.LookupByClientID(3000)
	if !ok || it.ServerID != 300 {
		t.Fatalf("LookupByClientID(3000) = %+v, %v", it, ok)
	}
	if _, ok := tbl.Lookup(999); ok {
		t.Fatalf("Lookup(999) should miss")
	}
}

func TestIsGroundClassifier(t *testing.T) {
	tbl := sampleTable()
	if !tbl.IsGround(100) {
		t.Fatalf("expected server_id 100 to be ground")
	}
	if tbl.IsGround(200) {
		t.Fatalf("expected server_id 200 not to be ground")
	}
	if tbl.IsGround(999) {
		t.Fatalf("unknown id should never be ground")
	}
}

func TestStackOrderUnknownSortsLast(t *testing.T) {
	tbl := sampleTable()
	if tbl.StackOrder(200) >= tbl.StackOrder(999) {
		t.Fatalf("known item should sort before unknown: known=%d unknown=%d", tbl.StackOrder(200), tbl.StackOrder(999))
	}
}

func TestNilTableIsSafe(t *testing.T) {
	var tbl *Table
	if _, ok := tbl.Lookup(1); ok {
		t.Fatalf("nil table should report not-found")
	}
	if tbl.IsGround(1) {
		t.Fatalf("nil table should never claim ground")
	}
	if tbl.Len() != 0 {
		t.Fatalf("nil table Len() should be 0")
	}
	visited := 0
	tbl.ForEach(func(*ItemType) bool { visited++; return true })
	if visited != 0 {
		t.Fatalf("nil table ForEach should visit nothing")
	}
}

func TestForEachStopsEarly(t *testing.T) {
	tbl := sampleTable()
	visited := 0
	tbl.ForEach(func(*ItemType) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Fatalf("expected ForEach to stop after 2 visits, got %d", visited)
	}
}
