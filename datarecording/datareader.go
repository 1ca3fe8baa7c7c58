package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

// QueryParams narrow down a query.
type QueryParams struct {
	// Where is the condition without the WHERE keyword, e.g. "Core = ?".
	Where string
	Args  []any

	// OrderBy is the ordering without the ORDER BY keywords.
	OrderBy string

	// Limit of 0 returns every row.
	Limit  int
	Offset int
}

// DataReader reads rows back into the struct types they were recorded from.
type DataReader interface {
	// MapTable tells which struct type the rows of a table are read into.
	MapTable(tableName string, sampleEntry any)

	// Query returns pointers to structs of the mapped type.
	Query(ctx context.Context, tableName string, params QueryParams) ([]any, error)

	// Count returns the number of rows matching a condition. An empty where
	// counts every row.
	Count(ctx context.Context, tableName, where string, args ...any) (int, error)

	Close() error
}

type sqliteReader struct {
	db      *sql.DB
	typeMap map[string]reflect.Type
}

// NewReader opens a database for reading.
func NewReader(path string) (DataReader, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a DataReader on an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, error) {
	rowType, ok := r.typeMap[tableName]
	if !ok {
		return nil, fmt.Errorf("table %s is not mapped", tableName)
	}

	names := structs.Names(reflect.New(rowType).Elem().Interface())

	q := new(strings.Builder)
	fmt.Fprintf(q, "SELECT %s FROM %s", strings.Join(names, ", "), tableName)

	args := append([]any(nil), params.Args...)

	if params.Where != "" {
		q.WriteString(" WHERE " + params.Where)
	}

	if params.OrderBy != "" {
		q.WriteString(" ORDER BY " + params.OrderBy)
	}

	if params.Limit > 0 || params.Offset > 0 {
		limit := params.Limit
		if limit == 0 {
			limit = -1
		}

		q.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, params.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows, rowType, names)
}

func scanRows(rows *sql.Rows, rowType reflect.Type, names []string) ([]any, error) {
	var results []any

	for rows.Next() {
		ptr := reflect.New(rowType)
		targets := make([]any, len(names))

		for i, name := range names {
			targets[i] = ptr.Elem().FieldByName(name).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, ptr.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Count(
	ctx context.Context,
	tableName, where string,
	args ...any,
) (int, error) {
	if _, ok := r.typeMap[tableName]; !ok {
		return 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	q := "SELECT COUNT(*) FROM " + tableName
	if where != "" {
		q += " WHERE " + where
	}

	n := 0
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)

	return n, err
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
