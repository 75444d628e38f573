package category_test

import (
	"testing"

	"github.com/spotcircuit/dmv-test/internal/domain/category"
)

func TestDefaultDistribution(t *testing.T) {
	d := category.Default()

	if d.Total() != 35 {
		t.Errorf("expected total 35, got %d", d.Total())
	}

	want := []string{
		"Road Signs", "Traffic Signals", "Rules of the Road",
		"Safe Driving", "Penalties and Insurance", "Alcohol and Drugs",
	}
	entries := d.Entries()
	if len(entries) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(entries))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, entries[i].Name)
		}
	}

	if d.Requested("Road Signs") != 9 {
		t.Errorf("expected 9 road signs, got %d", d.Requested("Road Signs"))
	}
	if d.Requested("Parking") != 0 {
		t.Error("expected unknown category to request 0")
	}
}

func TestNew_IgnoresInvalidEntries(t *testing.T) {
	d := category.New(
		category.Category{Name: "A", Count: 2},
		category.Category{Name: "B", Count: 0},
		category.Category{Name: "A", Count: 5},
		category.Category{Name: "C", Count: -1},
	)

	if d.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", d.Len())
	}
	if d.Requested("A") != 2 {
		t.Errorf("expected first A to win, got %d", d.Requested("A"))
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	d := category.Default()
	entries := d.Entries()
	entries[0].Count = 100

	if d.Requested("Road Signs") != 9 {
		t.Error("expected distribution to be unaffected by caller mutation")
	}
}
