package catalog

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"supplymatch/internal"
)

// SupplyItem is one confirmed invoice line ready for posting.
type SupplyItem struct {
	ProductID string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
}

type supplyDocument struct {
	XMLName                xml.Name     `xml:"document"`
	DocumentNumber         string       `xml:"documentNumber"`
	DateIncoming           string       `xml:"dateIncoming"`
	UseDefaultDocumentTime bool         `xml:"useDefaultDocumentTime"`
	DefaultStore           string       `xml:"defaultStore"`
	Supplier               string       `xml:"supplier"`
	Status                 string       `xml:"status"`
	Items                  []supplyLine `xml:"items>item"`
}

type supplyLine struct {
	Num          int    `xml:"num"`
	Product      string `xml:"product"`
	Store        string `xml:"store"`
	Price        string `xml:"price"`
	Amount       string `xml:"amount"`
	ActualAmount string `xml:"actualAmount"`
	Sum          string `xml:"sum"`
	DiscountSum  string `xml:"discountSum"`
}

type supplyResponse struct {
	Valid        string   `xml:"valid"`
	ErrorMessage string   `xml:"errorMessage"`
	Warnings     []string `xml:"warning"`
}

// CreateSupply posts an unconfirmed incoming invoice. Every product id
// is checked against the snapshot pool first, so a stale or group id
// never reaches the server.
func (c *Client) CreateSupply(ctx context.Context, snap *Snapshot, supplierID string, items []SupplyItem) (string, error) {
	if supplierID == "" {
		supplierID = c.cfg.IikoDefaultSupplierID
	}
	if supplierID == "" {
		return "", fmt.Errorf("supplier id is not set and IIKO_DEFAULT_SUPPLIER_ID is empty")
	}
	if len(items) == 0 {
		return "", fmt.Errorf("supply document has no items")
	}
	for _, it := range items {
		if !snap.Contains(it.ProductID) {
			return "", fmt.Errorf("%w: product %s is not a purchasable catalog item", internal.ErrInvalidMatchTarget, it.ProductID)
		}
	}

	now := time.Now()
	doc := supplyDocument{
		DocumentNumber:         "SM-" + now.Format("20060102-150405"),
		DateIncoming:           now.Format("2006-01-02T15:04:05"),
		UseDefaultDocumentTime: true,
		DefaultStore:           c.cfg.IikoDefaultStoreID,
		Supplier:               supplierID,
		Status:                 "UNCONFIRMED",
	}
	for i, it := range items {
		sum := it.Price.Mul(it.Quantity)
		doc.Items = append(doc.Items, supplyLine{
			Num:          i + 1,
			Product:      it.ProductID,
			Store:        c.cfg.IikoDefaultStoreID,
			Price:        it.Price.StringFixed(4),
			Amount:       it.Quantity.StringFixed(4),
			ActualAmount: it.Quantity.StringFixed(4),
			Sum:          sum.StringFixed(2),
			DiscountSum:  "0.00",
		})
	}

	payload, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	body, err := c.postXML(ctx, "/resto/api/documents/import/incomingInvoice", payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", internal.ErrCatalogUnavailable, err)
	}

	var resp supplyResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("supply response: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(resp.Valid), "true") {
		msg := strings.TrimSpace(resp.ErrorMessage)
		if msg == "" {
			msg = "server rejected the document"
		}
		return "", fmt.Errorf("supply rejected: %s", msg)
	}
	for _, w := range resp.Warnings {
		if w = strings.TrimSpace(w); w != "" {
			log.Warn().Str("document", doc.DocumentNumber).Msg(w)
		}
	}
	return doc.DocumentNumber, nil
}

func (c *Client) postXML(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s%s?key=%s", c.cfg.IikoServerURL, endpoint, token)

	if err := c.limiter.WaitTurn(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("iiko api error: status=%d body=%s", resp.StatusCode, truncate(string(body), 300))
	}
	return body, nil
}
