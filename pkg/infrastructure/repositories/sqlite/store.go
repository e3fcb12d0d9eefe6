package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

const schema = `
CREATE TABLE IF NOT EXISTS sales (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	sale_date     TEXT NOT NULL,
	item_code     TEXT NOT NULL,
	supplier_id   TEXT NOT NULL DEFAULT '',
	supplier_name TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	subcategory   TEXT NOT NULL DEFAULT '',
	level3        TEXT NOT NULL DEFAULT '',
	level4        TEXT NOT NULL DEFAULT '',
	level5        TEXT NOT NULL DEFAULT '',
	total         TEXT NOT NULL DEFAULT '0',
	qty           TEXT NOT NULL DEFAULT '0'
);
CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(sale_date);

CREATE TABLE IF NOT EXISTS items (
	code        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	supplier_id TEXT NOT NULL,
	position    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS suppliers (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL
);
`

// Store persists the sales table and registries in a SQLite database.
// Amounts and quantities are stored as decimal text to keep them exact.
type Store struct {
	db *sqlx.DB
}

type salesRow struct {
	Date         string `db:"sale_date"`
	ItemCode     string `db:"item_code"`
	SupplierID   string `db:"supplier_id"`
	SupplierName string `db:"supplier_name"`
	Category     string `db:"category"`
	Subcategory  string `db:"subcategory"`
	Level3       string `db:"level3"`
	Level4       string `db:"level4"`
	Level5       string `db:"level5"`
	Total        string `db:"total"`
	Quantity     string `db:"qty"`
}

type itemRow struct {
	Code        string `db:"code"`
	Description string `db:"description"`
	SupplierID  string `db:"supplier_id"`
	Position    int    `db:"position"`
}

type supplierRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Position int    `db:"position"`
}

// Open opens (creating if needed) the database at path and applies the schema
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSales appends sales records in a single transaction
func (s *Store) SaveSales(ctx context.Context, records []*entities.SalesRecord) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertSales(ctx, tx, records)
	})
}

// ReplaceSales swaps the whole sales table for records atomically
func (s *Store) ReplaceSales(ctx context.Context, records []*entities.SalesRecord) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
			return fmt.Errorf("failed to clear sales: %w", err)
		}
		return insertSales(ctx, tx, records)
	})
}

func insertSales(ctx context.Context, tx *sqlx.Tx, records []*entities.SalesRecord) error {
	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO sales (sale_date, item_code, supplier_id, supplier_name,
			category, subcategory, level3, level4, level5, total, qty)
		VALUES (:sale_date, :item_code, :supplier_id, :supplier_name,
			:category, :subcategory, :level3, :level4, :level5, :total, :qty)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		row := salesRow{
			Date:         r.Date.Format(entities.DateLayout),
			ItemCode:     string(r.ItemCode),
			SupplierID:   string(r.SupplierID),
			SupplierName: r.SupplierName,
			Category:     r.Category.Category,
			Subcategory:  r.Category.Subcategory,
			Level3:       r.Category.Level3,
			Level4:       r.Category.Level4,
			Level5:       r.Category.Level5,
			Total:        r.TotalAmount.String(),
			Quantity:     r.Quantity.String(),
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("failed to insert sale of item %s: %w", r.ItemCode, err)
		}
	}
	return nil
}

// SaveItems upserts the item registry, preserving the given order
func (s *Store) SaveItems(ctx context.Context, items []*entities.Item) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var base int
		if err := tx.GetContext(ctx, &base, `SELECT COALESCE(MAX(position) + 1, 0) FROM items`); err != nil {
			return err
		}

		for i, item := range items {
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO items (code, description, supplier_id, position)
				VALUES (:code, :description, :supplier_id, :position)
				ON CONFLICT(code) DO UPDATE SET
					description = excluded.description,
					supplier_id = excluded.supplier_id`,
				itemRow{
					Code:        string(item.Code),
					Description: item.Description,
					SupplierID:  string(item.SupplierID),
					Position:    base + i,
				})
			if err != nil {
				return fmt.Errorf("failed to save item %s: %w", item.Code, err)
			}
		}
		return nil
	})
}

// SaveSuppliers upserts the supplier registry, preserving the given order
func (s *Store) SaveSuppliers(ctx context.Context, suppliers []*entities.Supplier) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var base int
		if err := tx.GetContext(ctx, &base, `SELECT COALESCE(MAX(position) + 1, 0) FROM suppliers`); err != nil {
			return err
		}

		for i, supplier := range suppliers {
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO suppliers (id, name, position)
				VALUES (:id, :name, :position)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
				supplierRow{ID: string(supplier.ID), Name: supplier.Name, Position: base + i})
			if err != nil {
				return fmt.Errorf("failed to save supplier %s: %w", supplier.ID, err)
			}
		}
		return nil
	})
}

// LoadSales reads every sales record in insertion order
func (s *Store) LoadSales(ctx context.Context) ([]*entities.SalesRecord, error) {
	var rows []salesRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT sale_date, item_code, supplier_id, supplier_name,
			category, subcategory, level3, level4, level5, total, qty
		FROM sales ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}

	records := make([]*entities.SalesRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// LoadItems reads the item registry in saved order
func (s *Store) LoadItems(ctx context.Context) ([]*entities.Item, error) {
	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT code, description, supplier_id, position FROM items ORDER BY position`); err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	items := make([]*entities.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, &entities.Item{
			Code:        entities.ItemCode(row.Code),
			Description: row.Description,
			SupplierID:  entities.SupplierID(row.SupplierID),
		})
	}
	return items, nil
}

// LoadSuppliers reads the supplier registry in saved order
func (s *Store) LoadSuppliers(ctx context.Context) ([]*entities.Supplier, error) {
	var rows []supplierRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, position FROM suppliers ORDER BY position`); err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}

	suppliers := make([]*entities.Supplier, 0, len(rows))
	for _, row := range rows {
		suppliers = append(suppliers, &entities.Supplier{
			ID:   entities.SupplierID(row.ID),
			Name: row.Name,
		})
	}
	return suppliers, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (row salesRow) toEntity() (*entities.SalesRecord, error) {
	date, err := time.Parse(entities.DateLayout, row.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid stored sale date %q: %w", row.Date, err)
	}
	total, err := decimal.NewFromString(row.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total %q: %w", row.Total, err)
	}
	qty, err := decimal.NewFromString(row.Quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid stored qty %q: %w", row.Quantity, err)
	}

	return entities.NewSalesRecord(
		date,
		entities.ItemCode(row.ItemCode),
		entities.SupplierID(row.SupplierID),
		row.SupplierName,
		entities.CategoryPath{
			Category:    row.Category,
			Subcategory: row.Subcategory,
			Level3:      row.Level3,
			Level4:      row.Level4,
			Level5:      row.Level5,
		},
		total,
		qty,
	)
}
