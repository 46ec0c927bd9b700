package internal

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Unit is the normalized measurement unit of an invoice line.
type Unit string

const (
	UnitKilogram Unit = "кг"
	UnitLiter    Unit = "л"
	UnitPiece    Unit = "шт"
)

// LineItem is one normalized row extracted from an invoice table.
// Quantity is always strictly positive; rows that fail that gate are
// dropped during extraction.
type LineItem struct {
	Name             string
	Unit             Unit
	Quantity         decimal.Decimal
	UnitPriceWithTax decimal.Decimal
	SourceCode       string
}

// ItemType distinguishes purchasable items from category groups. The
// zero value means the remote system sent no type; such entries stay
// searchable but count as groups for exclusion seeding.
type ItemType string

const (
	TypeItem  ItemType = "ITEM"
	TypeGroup ItemType = "GROUP"
)

// CatalogItem is one entry of the external catalog, read-only for us.
type CatalogItem struct {
	ID       string
	Name     string
	Code     string
	Type     ItemType
	ParentID string
	MainUnit string
}

// MatchCandidate is a ranked search hit, score 0..100.
type MatchCandidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Score int    `json:"score"`
}

type Supplier struct {
	ID   string
	Name string
}

// LearnedMapping is a human-confirmed invoice-text → catalog-item
// association persisted by the mapping store.
type LearnedMapping struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ParsedDocument is the output of a document adapter run.
type ParsedDocument struct {
	LineItems    []LineItem
	SupplierName string
}

// ReconciledLine pairs an extracted line with its best candidate, if any.
type ReconciledLine struct {
	Line    LineItem
	Match   *MatchCandidate
	Runner  *MatchCandidate
	Learned bool
}

var (
	// ErrMalformedDocument: no header row found anywhere, or no tables
	// at all. Surfaced as "zero line items", the caller decides.
	ErrMalformedDocument = errors.New("malformed document: no line items extracted")

	// ErrCatalogUnavailable wraps provider failures. The only error a
	// reconciliation run surfaces as actionable.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidMatchTarget: an attempt to confirm or ship a mapping to
	// a category group instead of a purchasable item.
	ErrInvalidMatchTarget = errors.New("match target is a group, not an item")

	// ErrPersistence marks mapping-store read/write failures. Callers
	// treat it as a cache miss, never as fatal.
	ErrPersistence = errors.New("mapping store failure")
)