package extract

import "testing"

const htmlInvoice = `<html><body>
<p>Поставщик: ООО «Фрукт-Сервис»</p>
<table>
<tr><th>№</th><th>Наименование товара</th><th>Код</th><th>Ед. изм.</th><th>Кол-во</th><th>Цена</th><th></th><th></th><th>Стоимость с НДС</th></tr>
<tr><td>1</td><td>Авокадо Хасс</td><td>А100</td><td>кг</td><td>2,5</td><td>100</td><td></td><td></td><td>250</td></tr>
<tr><td>2</td><td>Итого</td><td></td><td></td><td>2,5</td><td></td><td></td><td></td><td>250</td></tr>
</table>
</body></html>`

func TestParseDocumentHTML(t *testing.T) {
	doc, err := ParseDocument("invoice.html", []byte(htmlInvoice))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.LineItems) != 1 {
		t.Fatalf("len=%d items=%+v", len(doc.LineItems), doc.LineItems)
	}
	if doc.LineItems[0].Name != "Авокадо Хасс" {
		t.Fatalf("name=%q", doc.LineItems[0].Name)
	}
	if !doc.LineItems[0].UnitPriceWithTax.Equal(dec("100")) {
		t.Fatalf("price=%s", doc.LineItems[0].UnitPriceWithTax)
	}
	if doc.SupplierName != "ООО «Фрукт-Сервис»" {
		t.Fatalf("supplier=%q", doc.SupplierName)
	}
}
