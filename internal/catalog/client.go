package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"supplymatch/internal"
	"supplymatch/internal/config"
)

// Client talks to an iiko-server back office. All endpoints are
// XML-over-GET under /resto/api, authenticated with a token obtained
// from the sha1-hashed password.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter

	mu    sync.Mutex
	token string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.IikoTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.IikoRateLimitRPS),
	}
}

// groupTypes are the productType values that mark category folders.
var groupTypes = map[string]struct{}{"products": {}, "productgroup": {}}

// FetchCatalog downloads the full nomenclature, groups included, as one
// immutable snapshot list. Failures are reported as catalog
// unavailability, which is the one actionable error of the flow.
func (c *Client) FetchCatalog(ctx context.Context) ([]internal.CatalogItem, error) {
	body, err := c.fetchXML(ctx, "/resto/api/products", map[string]string{"revisionFrom": "-1"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCatalogUnavailable, err)
	}
	return parseProductsXML(body)
}

// FetchSuppliers lists counteragents. The server exposes them through
// employees marked supplier=true; corporateItemDto is the fallback for
// older installations.
func (c *Client) FetchSuppliers(ctx context.Context) ([]internal.Supplier, error) {
	body, err := c.fetchXML(ctx, "/resto/api/employees", nil)
	if err == nil {
		if suppliers := parseEmployeeSuppliers(body); len(suppliers) > 0 {
			return suppliers, nil
		}
	}

	body, err = c.fetchXML(ctx, "/resto/api/corporateItemDto", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrCatalogUnavailable, err)
	}
	return parseCorporateSuppliers(body), nil
}

func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	if c.cfg.IikoServerURL == "" || c.cfg.IikoLogin == "" || c.cfg.IikoPassword == "" {
		return "", fmt.Errorf("iiko server credentials are not configured")
	}

	sum := sha1.Sum([]byte(c.cfg.IikoPassword))
	u := fmt.Sprintf("%s/resto/api/auth?login=%s&pass=%s",
		c.cfg.IikoServerURL, url.QueryEscape(c.cfg.IikoLogin), hex.EncodeToString(sum[:]))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth status %d", resp.StatusCode)
	}
	c.token = strings.TrimSpace(string(body))
	return c.token, nil
}

func (c *Client) fetchXML(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.cfg.IikoServerURL + endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", token)
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/xml")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("iiko status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("iiko api error: status=%d body=%s", resp.StatusCode, truncate(string(body), 300))
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("iiko request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

type productDTO struct {
	ID          string `xml:"id"`
	ParentID    string `xml:"parentId"`
	Name        string `xml:"name"`
	Num         string `xml:"num"`
	Code        string `xml:"code"`
	ProductType string `xml:"productType"`
	MainUnit    string `xml:"mainUnit"`
}

// parseProductsXML collects every productDto element regardless of
// nesting depth; the envelope element name differs between server
// versions.
func parseProductsXML(body []byte) ([]internal.CatalogItem, error) {
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	items := []internal.CatalogItem{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", internal.ErrCatalogUnavailable, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "productDto" {
			continue
		}
		var dto productDTO
		if err := dec.DecodeElement(&dto, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", internal.ErrCatalogUnavailable, err)
		}

		code := strings.TrimSpace(dto.Num)
		if code == "" {
			code = strings.TrimSpace(dto.Code)
		}
		items = append(items, internal.CatalogItem{
			ID:       strings.TrimSpace(dto.ID),
			Name:     strings.TrimSpace(dto.Name),
			Code:     code,
			Type:     itemType(dto.ProductType),
			ParentID: strings.TrimSpace(dto.ParentID),
			MainUnit: strings.TrimSpace(dto.MainUnit),
		})
	}
	return items, nil
}

func itemType(productType string) internal.ItemType {
	t := strings.ToLower(strings.TrimSpace(productType))
	if t == "" {
		return ""
	}
	if _, ok := groupTypes[t]; ok {
		return internal.TypeGroup
	}
	return internal.TypeItem
}

type employeeDTO struct {
	ID       string `xml:"id"`
	Name     string `xml:"name"`
	Supplier string `xml:"supplier"`
}

func parseEmployeeSuppliers(body []byte) []internal.Supplier {
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	out := []internal.Supplier{}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "employee" {
			continue
		}
		var dto employeeDTO
		if err := dec.DecodeElement(&dto, &start); err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(dto.Supplier), "true") {
			id := strings.TrimSpace(dto.ID)
			name := strings.TrimSpace(dto.Name)
			if id != "" && name != "" {
				out = append(out, internal.Supplier{ID: id, Name: name})
			}
		}
	}
	return out
}

type corporateItemDTO struct {
	ID   string `xml:"id"`
	Name string `xml:"name"`
	Type string `xml:"type"`
}

func parseCorporateSuppliers(body []byte) []internal.Supplier {
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	out := []internal.Supplier{}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "corporateItemDto" {
			continue
		}
		var dto corporateItemDTO
		if err := dec.DecodeElement(&dto, &start); err != nil {
			continue
		}
		id := strings.TrimSpace(dto.ID)
		name := strings.TrimSpace(dto.Name)
		itemType := strings.ToLower(strings.TrimSpace(dto.Type))
		if id == "" || len(id) <= 10 || name == "" {
			continue
		}
		if itemType == "" || strings.Contains(itemType, "counteragent") || strings.Contains(itemType, "supplier") {
			out = append(out, internal.Supplier{ID: id, Name: name})
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
