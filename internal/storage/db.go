package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"supplymatch/internal"
	"supplymatch/internal/util"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS mappings (
  key TEXT PRIMARY KEY,
  id TEXT NOT NULL,
  name TEXT NOT NULL,
  code TEXT,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS catalog_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  code TEXT,
  type TEXT,
  parentId TEXT,
  mainUnit TEXT,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_catalog_items_name ON catalog_items(name);
CREATE INDEX IF NOT EXISTS idx_catalog_items_code ON catalog_items(code);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// GetMapping looks up a remembered invoice-name mapping. Keys are
// whitespace-normalized, so a re-wrapped name still hits.
func (d *DB) GetMapping(invoiceName string) (*internal.LearnedMapping, error) {
	key := util.NormalizeKey(invoiceName)
	if key == "" {
		return nil, nil
	}

	var m internal.LearnedMapping
	err := d.conn.QueryRow(`SELECT id, name, code FROM mappings WHERE key = ?`, key).
		Scan(&m.ID, &m.Name, &m.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return &m, nil
}

// SaveMappings merges confirmed matches into the store. Entries with an
// empty key or product id are skipped; later entries overwrite earlier
// ones for the same key.
func (d *DB) SaveMappings(mappings map[string]internal.LearnedMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO mappings (key, id, name, code, updatedAt)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET
  id=excluded.id,
  name=excluded.name,
  code=excluded.code,
  updatedAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	defer stmt.Close()

	for invoiceName, m := range mappings {
		key := util.NormalizeKey(invoiceName)
		if key == "" || m.ID == "" {
			continue
		}
		if _, err := stmt.Exec(key, m.ID, m.Name, m.Code); err != nil {
			return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return nil
}

// RemoveMapping forgets a stored mapping, e.g. when its product id no
// longer exists in the catalog. Removing an absent key is a no-op.
func (d *DB) RemoveMapping(invoiceName string) error {
	key := util.NormalizeKey(invoiceName)
	if key == "" {
		return nil
	}
	if _, err := d.conn.Exec(`DELETE FROM mappings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return nil
}

// ListMappings returns every stored mapping keyed by normalized invoice
// name.
func (d *DB) ListMappings() (map[string]internal.LearnedMapping, error) {
	rows, err := d.conn.Query(`SELECT key, id, name, code FROM mappings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	defer rows.Close()

	out := map[string]internal.LearnedMapping{}
	for rows.Next() {
		var key string
		var m internal.LearnedMapping
		if err := rows.Scan(&key, &m.ID, &m.Name, &m.Code); err != nil {
			return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
		}
		out[key] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return out, nil
}

// UpsertCatalog replaces the cached catalog snapshot. Items that
// disappeared from the server are removed so the cache never serves
// stale ids.
func (d *DB) UpsertCatalog(items []internal.CatalogItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM catalog_items`); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO catalog_items (id, name, code, type, parentId, mainUnit, lastSeenAt)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
`)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	defer stmt.Close()

	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, err := stmt.Exec(it.ID, it.Name, it.Code, string(it.Type), it.ParentID, it.MainUnit); err != nil {
			return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return nil
}

func (d *DB) ListCatalog() ([]internal.CatalogItem, error) {
	rows, err := d.conn.Query(`SELECT id, name, code, type, parentId, mainUnit FROM catalog_items`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	defer rows.Close()

	var out []internal.CatalogItem
	for rows.Next() {
		var it internal.CatalogItem
		var itemType string
		if err := rows.Scan(&it.ID, &it.Name, &it.Code, &itemType, &it.ParentID, &it.MainUnit); err != nil {
			return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
		}
		it.Type = internal.ItemType(itemType)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return out, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value, updatedAt) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updatedAt=CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return nil
}

func (d *DB) GetMetadata(key string) (string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", internal.ErrPersistence, err)
	}
	return value, nil
}
