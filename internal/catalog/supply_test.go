package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"supplymatch/internal"
)

func supplySnapshot() *Snapshot {
	return NewSnapshot([]internal.CatalogItem{
		{ID: "id-avocado", Name: "Авокадо Хасс", Code: "00375", Type: internal.TypeItem},
		{ID: "id-group", Name: "Продукты", Type: internal.TypeGroup},
	})
}

func TestCreateSupplyRejectsUnknownProduct(t *testing.T) {
	client := NewClient(testClientConfig())
	items := []SupplyItem{
		{ProductID: "id-ghost", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(10)},
	}

	_, err := client.CreateSupply(context.Background(), supplySnapshot(), "sup-1", items)
	if !errors.Is(err, internal.ErrInvalidMatchTarget) {
		t.Fatalf("err=%v", err)
	}
}

func TestCreateSupplyRejectsGroupTarget(t *testing.T) {
	client := NewClient(testClientConfig())
	items := []SupplyItem{
		{ProductID: "id-group", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(10)},
	}

	_, err := client.CreateSupply(context.Background(), supplySnapshot(), "sup-1", items)
	if !errors.Is(err, internal.ErrInvalidMatchTarget) {
		t.Fatalf("err=%v", err)
	}
}

func TestCreateSupply(t *testing.T) {
	var posted string
	client := NewClient(testClientConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			switch r.URL.Path {
			case "/resto/api/auth":
				return xmlResponse(200, "TOKEN123"), nil
			case "/resto/api/documents/import/incomingInvoice":
				body, _ := io.ReadAll(r.Body)
				posted = string(body)
				return xmlResponse(200, "<document><valid>true</valid></document>"), nil
			default:
				t.Fatalf("unexpected path %s", r.URL.Path)
				return nil, nil
			}
		}),
	}

	items := []SupplyItem{
		{ProductID: "id-avocado", Quantity: decimal.RequireFromString("2.5"), Price: decimal.NewFromInt(100)},
	}
	number, err := client.CreateSupply(context.Background(), supplySnapshot(), "sup-1", items)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(number, "SM-") {
		t.Fatalf("number=%q", number)
	}

	for _, want := range []string{
		"<supplier>sup-1</supplier>",
		"<status>UNCONFIRMED</status>",
		"<product>id-avocado</product>",
		"<amount>2.5000</amount>",
		"<price>100.0000</price>",
		"<sum>250.00</sum>",
	} {
		if !strings.Contains(posted, want) {
			t.Fatalf("payload missing %q:\n%s", want, posted)
		}
	}
}

func TestCreateSupplyServerRejection(t *testing.T) {
	client := NewClient(testClientConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path == "/resto/api/auth" {
				return xmlResponse(200, "TOKEN123"), nil
			}
			return xmlResponse(200, "<document><valid>false</valid><errorMessage>склад не найден</errorMessage></document>"), nil
		}),
	}

	items := []SupplyItem{
		{ProductID: "id-avocado", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(10)},
	}
	_, err := client.CreateSupply(context.Background(), supplySnapshot(), "sup-1", items)
	if err == nil || !strings.Contains(err.Error(), "склад не найден") {
		t.Fatalf("err=%v", err)
	}
}
