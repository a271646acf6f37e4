package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/db"
	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	pgGetItem = `SELECT ` + itemColumns + ` FROM insumos WHERE codigo = $1`

	pgChildrenOf = `
SELECT c.codigo_filho, COALESCE(i.descricao, ''), COALESCE(i.unidade, ''), c.quantidade,
       COALESCE(i.custo_ref, 0), i.codigo IS NOT NULL
FROM composicoes c
LEFT JOIN insumos i ON c.codigo_filho = i.codigo
WHERE c.codigo_pai = $1
ORDER BY c.codigo_filho COLLATE "C"`
)

// preparedStatements lists the hot-path lookups prepared on each new
// connection. The SQL text doubles as the statement name so plain
// Query calls pick up the prepared plan.
var preparedStatements = []string{pgGetItem, pgChildrenOf}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for _, sql := range preparedStatements {
			// Fails on a database that has not been migrated yet; the
			// lookups then run unprepared.
			if _, err := conn.Prepare(ctx, sql, sql); err != nil {
				zap.L().Debug("postgres: prepare skipped", zap.Error(err))
				return nil
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, unavailable(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS insumos (
	codigo        TEXT PRIMARY KEY,
	descricao     TEXT NOT NULL DEFAULT '',
	unidade       TEXT NOT NULL DEFAULT '',
	custo_ref     NUMERIC NOT NULL DEFAULT 0,
	tipo          TEXT NOT NULL DEFAULT '',
	classificacao TEXT
);

CREATE TABLE IF NOT EXISTS composicoes (
	codigo_pai   TEXT NOT NULL,
	codigo_filho TEXT NOT NULL,
	quantidade   NUMERIC NOT NULL CHECK (quantidade > 0)
);

CREATE INDEX IF NOT EXISTS idx_insumos_custo_ref ON insumos(custo_ref);
CREATE INDEX IF NOT EXISTS idx_insumos_descricao_lower ON insumos(LOWER(descricao));
CREATE INDEX IF NOT EXISTS idx_composicoes_pai ON composicoes(codigo_pai);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return unavailable(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, f *search.Filter) ([]model.Item, error) {
	clause, args := f.SQL(search.DialectPostgres)

	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM insumos `+clause, args...)
	if err != nil {
		return nil, unavailable(err, "postgres: search")
	}
	defer rows.Close()

	items := make([]model.Item, 0, f.Limit)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, unavailable(err, "postgres: scan item")
		}
		items = append(items, *it)
	}
	return items, unavailable(rows.Err(), "postgres: search iterate")
}

func (s *PostgresStore) GetItem(ctx context.Context, code string) (*model.Item, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, pgGetItem, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err, "postgres: get item "+code)
	}
	return it, nil
}

func (s *PostgresStore) ChildrenOf(ctx context.Context, parentCode string) ([]model.ChildLine, error) {
	rows, err := s.pool.Query(ctx, pgChildrenOf, parentCode)
	if err != nil {
		return nil, unavailable(err, "postgres: children of "+parentCode)
	}
	defer rows.Close()

	var children []model.ChildLine
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, unavailable(err, "postgres: scan child")
		}
		children = append(children, *c)
	}
	return children, unavailable(rows.Err(), "postgres: children iterate")
}

func (s *PostgresStore) Stats(ctx context.Context) (*CatalogStats, error) {
	var st CatalogStats
	var items, links, comps int64
	if err := s.pool.QueryRow(ctx, statsQuery).Scan(&items, &links, &comps); err != nil {
		return nil, unavailable(err, "postgres: stats")
	}
	st.Items, st.Links, st.Compositions = int(items), int(links), int(comps)
	return &st, nil
}

// ReplaceCatalog truncates both relations and bulk-loads them with COPY in
// one transaction, so readers never observe a half-imported catalog.
func (s *PostgresStore) ReplaceCatalog(ctx context.Context, items []model.Item, links []model.CompositionLink) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE composicoes, insumos`); err != nil {
		return eris.Wrap(err, "postgres: truncate catalog")
	}

	itemRows, linkRows := catalogCopyRows(items, links)
	if _, err := db.CopyFrom(ctx, tx, "insumos",
		[]string{"codigo", "descricao", "unidade", "custo_ref", "tipo", "classificacao"}, itemRows); err != nil {
		return eris.Wrap(err, "postgres: load insumos")
	}

	if _, err := db.CopyFrom(ctx, tx, "composicoes",
		[]string{"codigo_pai", "codigo_filho", "quantidade"}, linkRows); err != nil {
		return eris.Wrap(err, "postgres: load composicoes")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace")
}

// catalogCopyRows lays items and links out in COPY column order. Money and
// coefficients go over the wire as exact NUMERIC values.
func catalogCopyRows(items []model.Item, links []model.CompositionLink) (itemRows, linkRows [][]any) {
	itemRows = make([][]any, len(items))
	for i, it := range items {
		var class any
		if it.Classification != "" {
			class = it.Classification
		}
		itemRows[i] = []any{it.Code, it.Description, it.Unit, numeric(it.ReferenceCost), it.Kind, class}
	}

	linkRows = make([][]any, len(links))
	for i, l := range links {
		linkRows[i] = []any{l.ParentCode, l.ChildCode, numeric(l.Coefficient)}
	}
	return itemRows, linkRows
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
