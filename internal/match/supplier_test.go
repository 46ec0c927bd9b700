package match

import (
	"testing"

	"supplymatch/internal"
)

func testSuppliers() []internal.Supplier {
	return []internal.Supplier{
		{ID: "s1", Name: "ООО Фрукт-Сервис"},
		{ID: "s2", Name: "ООО Мясной Двор"},
		{ID: "s3", Name: "ИП Иванов"},
	}
}

func TestMatchSupplier(t *testing.T) {
	got := MatchSupplier("ООО «Фрукт-Сервис»", testSuppliers(), 50)
	if got == nil || got.ID != "s1" {
		t.Fatalf("got=%+v", got)
	}
}

func TestMatchSupplierThresholdMustBeExceeded(t *testing.T) {
	// Nothing resembling the query: the default threshold stays unbeaten.
	got := MatchSupplier("Цветочная база Юг", testSuppliers(), 50)
	if got != nil {
		t.Fatalf("got=%+v", got)
	}
}

func TestMatchSupplierShortQuery(t *testing.T) {
	if got := MatchSupplier("ИП", testSuppliers(), 50); got != nil {
		t.Fatalf("got=%+v", got)
	}
	if got := MatchSupplier("  ", testSuppliers(), 50); got != nil {
		t.Fatalf("got=%+v", got)
	}
}

func TestMatchSupplierEmptyList(t *testing.T) {
	if got := MatchSupplier("ООО Фрукт-Сервис", nil, 50); got != nil {
		t.Fatalf("got=%+v", got)
	}
}

func TestMatchSupplierFirstSeenWins(t *testing.T) {
	suppliers := []internal.Supplier{
		{ID: "a", Name: "ООО Ромашка"},
		{ID: "b", Name: "ООО Ромашка"},
	}
	got := MatchSupplier("ООО Ромашка", suppliers, 50)
	if got == nil || got.ID != "a" {
		t.Fatalf("got=%+v", got)
	}
}
