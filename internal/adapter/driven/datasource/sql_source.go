package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const queryTimeout = 30 * time.Second

// sqlSource lê uma tabela inteira de um banco Postgres.
type sqlSource struct {
	open func(dsn string) (*sql.DB, error)
}

func newSQLSource() *sqlSource {
	return &sqlSource{open: func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}}
}

func isPostgresDSN(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

// selectQuery monta o SELECT da tabela. A tabela pode vir qualificada por schema.
func selectQuery(table string) (string, []interface{}, error) {
	if table == "" {
		return "", nil, fmt.Errorf("postgres source requires a table name")
	}
	for _, part := range strings.Split(table, ".") {
		if !validIdentifier(part) {
			return "", nil, fmt.Errorf("invalid table name %q", table)
		}
	}
	return sq.Select("*").From(table).PlaceholderFormat(sq.Dollar).ToSql()
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (s *sqlSource) read(ctx context.Context, dsn, table string) (rawTable, error) {
	query, args, err := selectQuery(table)
	if err != nil {
		return rawTable{}, err
	}

	db, err := s.open(dsn)
	if err != nil {
		return rawTable{}, err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return rawTable{}, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return rawTable{}, err
	}

	out := rawTable{columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return rawTable{}, fmt.Errorf("scanning %s: %w", table, err)
		}
		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = sqlText(v)
		}
		out.rows = append(out.rows, record)
	}
	if err := rows.Err(); err != nil {
		return rawTable{}, fmt.Errorf("reading %s: %w", table, err)
	}
	return out, nil
}

// sqlText converte um valor lido do driver para o texto usado na inferência.
func sqlText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
