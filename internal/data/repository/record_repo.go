package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"zentra/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Eq is an equality condition on one column.
type Eq struct {
	Column string
	Value  any
}

// RecordRepository reads and writes application rows as column maps.
type RecordRepository interface {
	Insert(ctx context.Context, table string, values map[string]any) (map[string]any, error)
	Select(ctx context.Context, table string, conds ...Eq) ([]map[string]any, error)
	Count(ctx context.Context, table string, conds ...Eq) (int64, error)
	Delete(ctx context.Context, table string, conds ...Eq) (int64, error)
}

type recordRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRecordRepository(db database.PgxIface, log *zap.Logger) RecordRepository {
	return &recordRepository{
		db:  db,
		log: log.With(zap.String("repository", "record")),
	}
}

// Insert stores one row and returns it as stored, defaults included.
func (r *recordRepository) Insert(ctx context.Context, table string, values map[string]any) (map[string]any, error) {
	columns, err := checkTable(table)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("insert into %s: no values", table)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		if err := checkColumn(table, columns, name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[name]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.fail("insert", table, err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, r.fail("insert", table, err)
	}

	return normalize(row), nil
}

func (r *recordRepository) Select(ctx context.Context, table string, conds ...Eq) ([]map[string]any, error) {
	where, args, err := buildWhere(table, conds)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s%s ORDER BY created_at`, table, where)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.fail("select", table, err)
	}
	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, r.fail("select", table, err)
	}

	for i := range result {
		result[i] = normalize(result[i])
	}
	return result, nil
}

func (r *recordRepository) Count(ctx context.Context, table string, conds ...Eq) (int64, error) {
	where, args, err := buildWhere(table, conds)
	if err != nil {
		return 0, err
	}

	var total int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table, where)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, r.fail("count", table, err)
	}
	return total, nil
}

// Delete refuses to run without conditions.
func (r *recordRepository) Delete(ctx context.Context, table string, conds ...Eq) (int64, error) {
	if len(conds) == 0 {
		return 0, fmt.Errorf("delete from %s: conditions required", table)
	}
	where, args, err := buildWhere(table, conds)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s%s`, table, where), args...)
	if err != nil {
		return 0, r.fail("delete", table, err)
	}
	return result.RowsAffected(), nil
}

func (r *recordRepository) fail(op, table string, err error) error {
	err = database.MapError(err)
	r.log.Error("Record operation failed",
		zap.String("op", op),
		zap.String("table", table),
		zap.Error(err),
	)
	return fmt.Errorf("%s %s: %w", op, table, err)
}

func buildWhere(table string, conds []Eq) (string, []any, error) {
	columns, err := checkTable(table)
	if err != nil {
		return "", nil, err
	}
	if len(conds) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, len(conds))
	args := make([]any, len(conds))
	for i, c := range conds {
		if err := checkColumn(table, columns, c.Column); err != nil {
			return "", nil, err
		}
		clauses[i] = fmt.Sprintf("%s = $%d", c.Column, i+1)
		args[i] = c.Value
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// normalize renders uuid columns as strings so rows look the same
// whichever gateway produced them.
func normalize(row map[string]any) map[string]any {
	for k, v := range row {
		switch val := v.(type) {
		case [16]byte:
			row[k] = uuid.UUID(val).String()
		case uuid.UUID:
			row[k] = val.String()
		}
	}
	return row
}
