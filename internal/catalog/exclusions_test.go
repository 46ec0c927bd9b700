package catalog

import (
	"testing"

	"supplymatch/internal"
)

func testCatalog() []internal.CatalogItem {
	return []internal.CatalogItem{
		{ID: "g-yandex", Name: "Yandex", Type: internal.TypeGroup},
		{ID: "g-kitchen", Name: "Кухня", Type: internal.TypeGroup},
		{ID: "g-food", Name: "Продукты", Type: internal.TypeGroup},
		{ID: "i-burger", Name: "Бургер Yandex", Type: internal.TypeItem, ParentID: "g-yandex"},
		{ID: "g-sub", Name: "Подраздел", Type: internal.TypeGroup, ParentID: "g-yandex"},
		{ID: "i-deep", Name: "Соус", Type: internal.TypeItem, ParentID: "g-sub"},
		{ID: "i-avocado", Name: "Авокадо Хасс", Type: internal.TypeItem, ParentID: "g-food"},
		// Item-typed entry with an excluded-looking name stays in.
		{ID: "i-named", Name: "Кухня", Type: internal.TypeItem, ParentID: "g-food"},
		// Untyped entries count as groups for seeding.
		{ID: "u-netka", Name: "Gonzo Gaming - Нетка", Type: ""},
		{ID: "i-under-netka", Name: "Сетевой сбор", Type: internal.TypeItem, ParentID: "u-netka"},
	}
}

func TestBuildExclusions(t *testing.T) {
	excluded := BuildExclusions(testCatalog())

	for _, id := range []string{"g-yandex", "g-kitchen", "i-burger", "g-sub", "i-deep", "u-netka", "i-under-netka"} {
		if _, ok := excluded[id]; !ok {
			t.Fatalf("%s not excluded", id)
		}
	}
	for _, id := range []string{"g-food", "i-avocado", "i-named"} {
		if _, ok := excluded[id]; ok {
			t.Fatalf("%s wrongly excluded", id)
		}
	}
}

func TestBuildExclusionsOrderIndependent(t *testing.T) {
	items := testCatalog()
	reversed := make([]internal.CatalogItem, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		reversed = append(reversed, items[i])
	}

	a := BuildExclusions(items)
	b := BuildExclusions(reversed)
	if len(a) != len(b) {
		t.Fatalf("len a=%d b=%d", len(a), len(b))
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			t.Fatalf("%s missing in reversed result", id)
		}
	}
}

func TestBuildExclusionsIdempotent(t *testing.T) {
	items := testCatalog()
	first := BuildExclusions(items)
	second := BuildExclusions(items)
	if len(first) != len(second) {
		t.Fatalf("len first=%d second=%d", len(first), len(second))
	}
}

func TestBuildExclusionsCyclicParents(t *testing.T) {
	items := []internal.CatalogItem{
		{ID: "a", Name: "А", Type: internal.TypeGroup, ParentID: "b"},
		{ID: "b", Name: "Б", Type: internal.TypeGroup, ParentID: "a"},
	}
	if excluded := BuildExclusions(items); len(excluded) != 0 {
		t.Fatalf("excluded=%v", excluded)
	}
}

func TestSnapshotPool(t *testing.T) {
	snap := NewSnapshot(testCatalog())

	if !snap.Contains("i-avocado") {
		t.Fatal("i-avocado missing from pool")
	}
	// Groups, excluded items and excluded descendants are not targets.
	for _, id := range []string{"g-food", "i-burger", "i-deep", "u-netka"} {
		if snap.Contains(id) {
			t.Fatalf("%s should not be a match target", id)
		}
	}
	if it, ok := snap.Get("i-named"); !ok || it.Name != "Кухня" {
		t.Fatalf("i-named: %+v ok=%v", it, ok)
	}
	if !snap.Excluded("g-yandex") {
		t.Fatal("g-yandex not marked excluded")
	}
}
