package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"

	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(search.SQLiteLowerFunc, 1, unicodeLower)
}

// unicodeLower folds case like strings.ToLower so accented capitals match
// the lower-cased search patterns.
func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS insumos (
	codigo        TEXT PRIMARY KEY,
	descricao     TEXT NOT NULL DEFAULT '',
	unidade       TEXT NOT NULL DEFAULT '',
	custo_ref     REAL NOT NULL DEFAULT 0,
	tipo          TEXT NOT NULL DEFAULT '',
	classificacao TEXT
);

CREATE TABLE IF NOT EXISTS composicoes (
	codigo_pai   TEXT NOT NULL,
	codigo_filho TEXT NOT NULL,
	quantidade   REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_insumos_custo_ref ON insumos(custo_ref);
CREATE INDEX IF NOT EXISTS idx_composicoes_pai ON composicoes(codigo_pai);
`

// Catalog queries shared with the Postgres store apart from placeholders.
const (
	itemColumns = `codigo, descricao, unidade, custo_ref, tipo, COALESCE(classificacao, '')`

	sqliteGetItem = `SELECT ` + itemColumns + ` FROM insumos WHERE codigo = ?`

	sqliteChildrenOf = `
SELECT c.codigo_filho, COALESCE(i.descricao, ''), COALESCE(i.unidade, ''), c.quantidade,
       COALESCE(i.custo_ref, 0), i.codigo IS NOT NULL
FROM composicoes c
LEFT JOIN insumos i ON c.codigo_filho = i.codigo
WHERE c.codigo_pai = ?
ORDER BY c.codigo_filho`

	statsQuery = `
SELECT (SELECT COUNT(*) FROM insumos),
       (SELECT COUNT(*) FROM composicoes),
       (SELECT COUNT(DISTINCT codigo_pai) FROM composicoes)`
)

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return unavailable(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Search(ctx context.Context, f *search.Filter) ([]model.Item, error) {
	clause, args := f.SQL(search.DialectSQLite)

	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM insumos `+clause, args...)
	if err != nil {
		return nil, unavailable(err, "sqlite: search")
	}
	defer rows.Close()

	items := make([]model.Item, 0, f.Limit)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, unavailable(err, "sqlite: scan item")
		}
		items = append(items, *it)
	}
	return items, unavailable(rows.Err(), "sqlite: search iterate")
}

func (s *SQLiteStore) GetItem(ctx context.Context, code string) (*model.Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx, sqliteGetItem, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err, "sqlite: get item "+code)
	}
	return it, nil
}

func (s *SQLiteStore) ChildrenOf(ctx context.Context, parentCode string) ([]model.ChildLine, error) {
	rows, err := s.db.QueryContext(ctx, sqliteChildrenOf, parentCode)
	if err != nil {
		return nil, unavailable(err, "sqlite: children of "+parentCode)
	}
	defer rows.Close()

	var children []model.ChildLine
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, unavailable(err, "sqlite: scan child")
		}
		children = append(children, *c)
	}
	return children, unavailable(rows.Err(), "sqlite: children iterate")
}

func (s *SQLiteStore) Stats(ctx context.Context) (*CatalogStats, error) {
	var st CatalogStats
	if err := s.db.QueryRowContext(ctx, statsQuery).Scan(&st.Items, &st.Links, &st.Compositions); err != nil {
		return nil, unavailable(err, "sqlite: stats")
	}
	return &st, nil
}

// ReplaceCatalog swaps both relations wholesale inside one transaction.
func (s *SQLiteStore) ReplaceCatalog(ctx context.Context, items []model.Item, links []model.CompositionLink) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{`DELETE FROM composicoes`, `DELETE FROM insumos`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "sqlite: %s", stmt)
		}
	}

	insItem, err := tx.PrepareContext(ctx,
		`INSERT INTO insumos (codigo, descricao, unidade, custo_ref, tipo, classificacao) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert item")
	}
	defer insItem.Close()

	for _, it := range items {
		if _, err := insItem.ExecContext(ctx,
			it.Code, it.Description, it.Unit, it.ReferenceCost.InexactFloat64(), it.Kind, nullString(it.Classification),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert item %s", it.Code)
		}
	}

	insLink, err := tx.PrepareContext(ctx,
		`INSERT INTO composicoes (codigo_pai, codigo_filho, quantidade) VALUES (?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert link")
	}
	defer insLink.Close()

	for _, l := range links {
		if _, err := insLink.ExecContext(ctx, l.ParentCode, l.ChildCode, l.Coefficient.InexactFloat64()); err != nil {
			return eris.Wrapf(err, "sqlite: insert link %s→%s", l.ParentCode, l.ChildCode)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*model.Item, error) {
	var it model.Item
	if err := row.Scan(&it.Code, &it.Description, &it.Unit, &it.ReferenceCost, &it.Kind, &it.Classification); err != nil {
		return nil, err
	}
	return &it, nil
}

// scanChild reads one left-joined child row; a child without a price row
// keeps nil description/unit and a null cost.
func scanChild(row scannable) (*model.ChildLine, error) {
	var (
		c          model.ChildLine
		desc, unit string
		cost       decimal.Decimal
		found      bool
	)
	if err := row.Scan(&c.ChildCode, &desc, &unit, &c.Coefficient, &cost, &found); err != nil {
		return nil, err
	}
	if found {
		c.Description = &desc
		c.Unit = &unit
		c.ReferenceCost = decimal.NewNullDecimal(cost)
	}
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
