// Package datarecording keeps the history of generated builds in a SQLite
// database.
package datarecording

import (
	"database/sql"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/tebeka/atexit"
)

// DataRecorder buffers rows of struct-typed tables and writes them to the
// database in one transaction per flush.
type DataRecorder interface {
	// CreateTable creates the table if it does not exist yet. The columns are
	// the exported fields of the sample entry.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table created by CreateTable.
	InsertData(tableName string, entry any) error

	// Flush writes all the buffered entries.
	Flush() error

	// Close flushes and closes the database.
	Close() error
}

// New opens the database at path, creating it if needed. Buffered entries
// are flushed when the process exits through atexit.
func New(path string) (DataRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	return NewWithDB(db), nil
}

// NewWithDB creates a DataRecorder on an open database.
func NewWithDB(db *sql.DB) DataRecorder {
	r := &sqliteRecorder{
		db:     db,
		tables: make(map[string]*recordTable),
	}

	atexit.Register(func() { _ = r.Flush() })

	return r
}

var tableNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type column struct {
	name    string
	sqlType string
}

type recordTable struct {
	rowType reflect.Type
	insert  *sql.Stmt
	pending [][]any
}

type sqliteRecorder struct {
	db     *sql.DB
	tables map[string]*recordTable
	order  []string
	closed bool
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) error {
	if _, ok := r.tables[tableName]; ok {
		return nil
	}

	if !tableNameRegexp.MatchString(tableName) {
		return fmt.Errorf("invalid table name %q", tableName)
	}

	cols, err := columnsOf(sampleEntry)
	if err != nil {
		return fmt.Errorf("table %s: %w", tableName, err)
	}

	defs := make([]string, len(cols))
	names := make([]string, len(cols))

	for i, c := range cols {
		defs[i] = c.name + " " + c.sqlType
		names[i] = c.name
	}

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		tableName, strings.Join(defs, ", "))
	if _, err := r.db.Exec(create); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(names, ", "), placeholders)

	stmt, err := r.db.Prepare(insert)
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", tableName, err)
	}

	r.tables[tableName] = &recordTable{
		rowType: reflect.TypeOf(sampleEntry),
		insert:  stmt,
	}
	r.order = append(r.order, tableName)

	return nil
}

func columnsOf(sampleEntry any) ([]column, error) {
	if !structs.IsStruct(sampleEntry) {
		return nil, fmt.Errorf("entry of type %T is not a struct", sampleEntry)
	}

	fields := structs.Fields(sampleEntry)
	if len(fields) == 0 {
		return nil, fmt.Errorf("entry of type %T has no exported field", sampleEntry)
	}

	cols := make([]column, 0, len(fields))

	for _, f := range fields {
		t, ok := sqlType(f.Kind())
		if !ok {
			return nil, fmt.Errorf("field %s of kind %s cannot be stored",
				f.Name(), f.Kind())
		}

		cols = append(cols, column{name: f.Name(), sqlType: t})
	}

	return cols, nil
}

func sqlType(kind reflect.Kind) (string, bool) {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "INTEGER", true
	case reflect.Float32, reflect.Float64:
		return "REAL", true
	case reflect.String:
		return "TEXT", true
	}

	return "", false
}

func (r *sqliteRecorder) InsertData(tableName string, entry any) error {
	t, ok := r.tables[tableName]
	if !ok {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != t.rowType {
		return fmt.Errorf("entry of type %T does not fit table %s", entry, tableName)
	}

	t.pending = append(t.pending, structs.Values(entry))

	return nil
}

func (r *sqliteRecorder) Flush() error {
	if r.closed || !r.hasPending() {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	for _, name := range r.order {
		stmt := tx.Stmt(r.tables[name].insert)

		for _, row := range r.tables[name].pending {
			if _, err := stmt.Exec(row...); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("inserting into %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, t := range r.tables {
		t.pending = nil
	}

	return nil
}

func (r *sqliteRecorder) hasPending() bool {
	for _, t := range r.tables {
		if len(t.pending) > 0 {
			return true
		}
	}

	return false
}

func (r *sqliteRecorder) Close() error {
	if r.closed {
		return nil
	}

	err := r.Flush()

	for _, t := range r.tables {
		t.insert.Close()
	}

	r.closed = true

	if closeErr := r.db.Close(); err == nil {
		err = closeErr
	}

	return err
}
