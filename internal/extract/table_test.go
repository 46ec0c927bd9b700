package extract

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func invoiceHeader() []string {
	return []string{"№", "Наименование товара", "Код", "Ед. изм.", "Кол-во", "Цена", "", "", "Стоимость с НДС"}
}

func TestExtractInvoiceTable(t *testing.T) {
	table := Table{
		{"Поставщик: ООО «Фрукт-Сервис»"},
		invoiceHeader(),
		{"1", "Авокадо Хасс *123", "А100", "кг", "2,5", "100", "", "", "300"},
		{"2", "Итого", "", "шт", "5", "10", "", "", "50"},
		{"", "перенос строки без номера", "", "", "", "", "", "", ""},
		{"3", "12345", "", "шт", "1", "10", "", "", "10"},
		{"4", "Нори листы", "", "шт", "0", "10", "", "", "0"},
		{"5", "Имбирь маринованный", "", "шт", "-1", "10", "", "", ""},
		{"6", "Сыр Моцарелла", "", "шт", "4", "25,50", "", "", ""},
	}

	items := NewExtractor(totalWithTaxColSheet).Extract([]Table{table})
	if len(items) != 2 {
		t.Fatalf("len=%d items=%+v", len(items), items)
	}

	first := items[0]
	if first.Name != "Авокадо Хасс" {
		t.Fatalf("name=%q", first.Name)
	}
	if first.Unit != "кг" {
		t.Fatalf("unit=%q", first.Unit)
	}
	if !first.Quantity.Equal(dec("2.5")) {
		t.Fatalf("qty=%s", first.Quantity)
	}
	// 300 / 2.5: the tax-inclusive total wins over the raw price column.
	if !first.UnitPriceWithTax.Equal(dec("120")) {
		t.Fatalf("price=%s", first.UnitPriceWithTax)
	}
	if first.SourceCode != "А100" {
		t.Fatalf("code=%q", first.SourceCode)
	}

	second := items[1]
	if second.Name != "Сыр Моцарелла" {
		t.Fatalf("name=%q", second.Name)
	}
	if !second.UnitPriceWithTax.Equal(dec("25.5")) {
		t.Fatalf("price=%s", second.UnitPriceWithTax)
	}
}

func TestExtractFractionalQuantity(t *testing.T) {
	table := Table{
		invoiceHeader(),
		// 1,500 кг is one and a half kilos, not fifteen hundred.
		{"1", "Лосось филе охлаждённое", "", "кг", "1,500", "", "", "", "3000"},
	}

	items := NewExtractor(totalWithTaxColSheet).Extract([]Table{table})
	if len(items) != 1 {
		t.Fatalf("len=%d items=%+v", len(items), items)
	}
	if !items[0].Quantity.Equal(dec("1.5")) {
		t.Fatalf("qty=%s", items[0].Quantity)
	}
	if !items[0].UnitPriceWithTax.Equal(dec("2000")) {
		t.Fatalf("price=%s", items[0].UnitPriceWithTax)
	}
}

func TestExtractNoHeader(t *testing.T) {
	table := Table{
		{"1", "Авокадо Хасс", "", "кг", "2,5", "100"},
	}
	if items := NewExtractor(totalWithTaxColSheet).Extract([]Table{table}); len(items) != 0 {
		t.Fatalf("len=%d", len(items))
	}
}

func TestExtractHeaderBeyondLookahead(t *testing.T) {
	table := Table{}
	for i := 0; i < headerLookahead+1; i++ {
		table = append(table, []string{fmt.Sprintf("примечание %d", i)})
	}
	table = append(table, invoiceHeader())
	table = append(table, []string{"1", "Авокадо Хасс", "", "кг", "2,5", "100", "", "", "300"})

	if items := NewExtractor(totalWithTaxColSheet).Extract([]Table{table}); len(items) != 0 {
		t.Fatalf("len=%d", len(items))
	}
}

func TestExtractSecondHeaderRemapsColumns(t *testing.T) {
	table := Table{
		invoiceHeader(),
		{"1", "Авокадо Хасс", "", "кг", "2", "50", "", "", "100"},
		// Columns swapped on the next sheet section.
		{"№", "Кол-во", "Наименование товара", "Ед.", "Цена", "", "", "", "Стоимость с НДС"},
		{"2", "3", "Сыр Моцарелла", "шт", "10", "", "", "", "30"},
	}

	items := NewExtractor(totalWithTaxColSheet).Extract([]Table{table})
	if len(items) != 2 {
		t.Fatalf("len=%d items=%+v", len(items), items)
	}
	if items[1].Name != "Сыр Моцарелла" {
		t.Fatalf("name=%q", items[1].Name)
	}
	if !items[1].Quantity.Equal(dec("3")) {
		t.Fatalf("qty=%s", items[1].Quantity)
	}
}

func TestSupplierFromText(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "colon marker",
			text: "Счёт-фактура №1\nПоставщик: ООО «Фрукт-Сервис»\nПокупатель: ООО Ресторан",
			want: "ООО «Фрукт-Сервис»",
		},
		{
			name: "seller english",
			text: "Seller: Fresh Foods LLC\n",
			want: "Fresh Foods LLC",
		},
		{
			name: "buyer tail stripped",
			text: "Продавец: ООО Фрукт-Сервис, Покупатель: ООО Ресторан",
			want: "ООО Фрукт-Сервис",
		},
		{
			name: "digits rejected",
			text: "Поставщик: 1234567890",
			want: "",
		},
		{
			name: "no marker",
			text: "Накладная без реквизитов",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SupplierFromText(tc.text); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
