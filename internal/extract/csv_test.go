package extract

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const csvInvoice = `Поставщик: ООО «Фрукт-Сервис»;;;;;;;;
№;Наименование товара;Код;Ед. изм.;Кол-во;Цена;;;Стоимость с НДС
1;Авокадо Хасс свежий калиброванный;А100;кг;2,5;100;;;250
2;Сыр Моцарелла для пиццы классический;;шт;4;25,50;;;
;Итого по накладной;;;;;;;250
`

func TestParseDocumentCSV(t *testing.T) {
	doc, err := ParseDocument("invoice.csv", []byte(csvInvoice))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.LineItems) != 2 {
		t.Fatalf("len=%d items=%+v", len(doc.LineItems), doc.LineItems)
	}
	if doc.LineItems[0].Name != "Авокадо Хасс свежий калиброванный" {
		t.Fatalf("name=%q", doc.LineItems[0].Name)
	}
	if doc.SupplierName != "ООО «Фрукт-Сервис»" {
		t.Fatalf("supplier=%q", doc.SupplierName)
	}
}

func TestParseDocumentCSVWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String(csvInvoice)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := ParseDocument("invoice.csv", []byte(encoded))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.LineItems) != 2 {
		t.Fatalf("len=%d items=%+v", len(doc.LineItems), doc.LineItems)
	}
	if doc.LineItems[0].Name != "Авокадо Хасс свежий калиброванный" {
		t.Fatalf("name=%q", doc.LineItems[0].Name)
	}
}

func TestSniffSeparator(t *testing.T) {
	if sep := sniffSeparator([]byte("a;b;c\n1;2;3")); sep != ';' {
		t.Fatalf("sep=%q", sep)
	}
	if sep := sniffSeparator([]byte("a,b,c\n")); sep != 0 {
		t.Fatalf("sep=%q", sep)
	}
}
