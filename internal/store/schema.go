package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Table names.
const (
	TableCustomers     = "customers"
	TableProducts      = "products"
	TableCategories    = "categories"
	TableQuotations    = "quotations"
	TableOrders        = "orders"
	TableSettings      = "settings"
	TableCalendarNotes = "calendar_notes"
)

// Index declares a secondary index on a table.
type Index struct {
	Table   string
	Columns []string
	Unique  bool
}

// Name returns the deterministic index name.
func (i Index) Name() string {
	prefix := "idx"
	if i.Unique {
		prefix = "ux"
	}
	return fmt.Sprintf("%s_%s_%s", prefix, i.Table, strings.Join(i.Columns, "_"))
}

// DDL renders an idempotent CREATE INDEX statement.
func (i Index) DDL() string {
	unique := ""
	if i.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)", unique, i.Name(), i.Table, strings.Join(i.Columns, ", "))
}

// Version is one additive step of the schema.
type Version struct {
	Number     int
	Statements []string
	Indexes    []Index
}

// Schema is the ordered list of versions.
type Schema struct {
	Versions []Version
}

// Indexed returns the columns usable in predicates for table. The primary key is always included.
func (s Schema) Indexed(table string) []string {
	seen := map[string]struct{}{"id": {}}
	for _, v := range s.Versions {
		for _, idx := range v.Indexes {
			if idx.Table != table {
				continue
			}
			for _, col := range idx.Columns {
				seen[col] = struct{}{}
			}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// IsIndexed reports whether column is declared in an index on table.
func (s Schema) IsIndexed(table, column string) bool {
	for _, col := range s.Indexed(table) {
		if col == column {
			return true
		}
	}
	return false
}

// Latest returns the highest version number.
func (s Schema) Latest() int {
	latest := 0
	for _, v := range s.Versions {
		if v.Number > latest {
			latest = v.Number
		}
	}
	return latest
}

const isoDateCheck = `~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}$'`

// Default is the quotebook schema.
var Default = Schema{Versions: []Version{
	{
		Number: 1,
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS customers (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				phone TEXT NOT NULL,
				email TEXT,
				birthday TEXT CHECK (birthday IS NULL OR birthday = '' OR birthday ` + isoDateCheck + `),
				observations TEXT,
				address JSONB,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS categories (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS products (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				price NUMERIC(14,2) NOT NULL CHECK (price >= 0),
				cost_price NUMERIC(14,2) CHECK (cost_price IS NULL OR cost_price >= 0),
				unit TEXT NOT NULL DEFAULT 'un',
				photo_base64 TEXT,
				category_id BIGINT,
				active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS quotations (
				id BIGSERIAL PRIMARY KEY,
				customer_id BIGINT NOT NULL CHECK (customer_id > 0),
				customer_name TEXT NOT NULL,
				quote_date TEXT NOT NULL CHECK (quote_date ` + isoDateCheck + `),
				validity TEXT NOT NULL CHECK (validity ` + isoDateCheck + `),
				items JSONB NOT NULL DEFAULT '[]'::jsonb,
				discount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (discount >= 0),
				shipping_fee NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (shipping_fee >= 0),
				total NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (total >= 0),
				observations TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS orders (
				id BIGSERIAL PRIMARY KEY,
				quotation_id BIGINT,
				customer_id BIGINT NOT NULL,
				customer_name TEXT NOT NULL,
				items JSONB NOT NULL DEFAULT '[]'::jsonb,
				total NUMERIC(14,2) NOT NULL DEFAULT 0,
				delivery_date TEXT NOT NULL CHECK (delivery_date ` + isoDateCheck + `),
				status TEXT NOT NULL,
				observations TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS settings (
				id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
				company_name TEXT NOT NULL,
				owner_name TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				email TEXT,
				logo TEXT,
				default_observations TEXT NOT NULL DEFAULT '',
				product_mode TEXT NOT NULL,
				pdf_theme TEXT NOT NULL,
				password_hash TEXT,
				shipping_rate_per_km NUMERIC(10,2),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
		Indexes: []Index{
			{Table: TableCustomers, Columns: []string{"name"}},
			{Table: TableCustomers, Columns: []string{"birthday"}},
			{Table: TableProducts, Columns: []string{"name"}},
			{Table: TableProducts, Columns: []string{"category_id"}},
			{Table: TableProducts, Columns: []string{"active"}},
			{Table: TableQuotations, Columns: []string{"customer_id"}},
			{Table: TableQuotations, Columns: []string{"quote_date"}},
			{Table: TableQuotations, Columns: []string{"status"}},
			{Table: TableOrders, Columns: []string{"customer_id"}},
			{Table: TableOrders, Columns: []string{"delivery_date"}},
			{Table: TableOrders, Columns: []string{"status"}},
			{Table: TableCategories, Columns: []string{"name"}},
		},
	},
	{
		Number: 2,
		Statements: []string{
			`ALTER TABLE quotations ADD COLUMN IF NOT EXISTS delivery_date TEXT
				CHECK (delivery_date IS NULL OR delivery_date ` + isoDateCheck + `)`,
			`CREATE TABLE IF NOT EXISTS calendar_notes (
				id BIGSERIAL PRIMARY KEY,
				note_date TEXT NOT NULL CHECK (note_date ` + isoDateCheck + `),
				text TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
		Indexes: []Index{
			{Table: TableQuotations, Columns: []string{"delivery_date"}},
			{Table: TableCalendarNotes, Columns: []string{"note_date"}, Unique: true},
		},
	},
	{
		Number: 3,
		Statements: []string{
			`ALTER TABLE quotations ADD COLUMN IF NOT EXISTS shipping_distance NUMERIC(10,2)`,
			`ALTER TABLE settings ADD COLUMN IF NOT EXISTS origin_address TEXT`,
			`ALTER TABLE customers ADD COLUMN IF NOT EXISTS anniversary_date TEXT`,
			`ALTER TABLE products ADD COLUMN IF NOT EXISTS description TEXT`,
		},
	},
}}

const versionTableDDL = `CREATE TABLE IF NOT EXISTS schema_versions (
	version INT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrate applies every version above the recorded one. Each version runs in its own
// transaction and every statement is IF NOT EXISTS, so re-running is a no-op.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, versionTableDDL); err != nil {
		return Translate("migrate: version table", err)
	}
	var current int
	if err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current); err != nil {
		return Translate("migrate: read version", err)
	}

	versions := append([]Version(nil), s.schema.Versions...)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Number < versions[j].Number })

	for _, v := range versions {
		if v.Number <= current {
			continue
		}
		err := s.WithTx(ctx, func(tx pgx.Tx) error {
			for _, stmt := range v.Statements {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return err
				}
			}
			for _, idx := range v.Indexes {
				if _, err := tx.Exec(ctx, idx.DDL()); err != nil {
					return err
				}
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_versions (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`, v.Number)
			return err
		})
		if err != nil {
			return Translate(fmt.Sprintf("migrate: version %d", v.Number), err)
		}
		s.logger.Info("schema version applied", "version", v.Number)
	}
	return nil
}

// Version returns the recorded schema version.
func (s *Store) Version(ctx context.Context) (int, error) {
	var current int
	if err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current); err != nil {
		return 0, Translate("schema version", err)
	}
	return current, nil
}
