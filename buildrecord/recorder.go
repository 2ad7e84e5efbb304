// Package buildrecord stores a record of every build's cache decision and
// generation run in a SQLite database, so slow regenerations can be traced
// back to the configuration change that caused them.
package buildrecord

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

const eventTable = "build_events"

// An Event describes one finalization of a core.
type Event struct {
	BuildID     string
	Fingerprint string
	NetlistName string
	CacheHit    bool
	DurationMS  int64
	Outcome     string
}

// A Recorder batches build events and writes them to a SQLite database.
type Recorder struct {
	db        *sql.DB
	dbName    string
	entries   []Event
	batchSize int
}

// NewRecorder creates a recorder backed by path + ".sqlite3". An empty path
// picks a unique name.
func NewRecorder(path string) *Recorder {
	r := &Recorder{
		dbName:    path,
		batchSize: 128,
	}

	r.init()

	atexit.Register(func() { r.Flush() })

	return r
}

func (r *Recorder) init() {
	if r.dbName == "" {
		r.dbName = "vexii_build_record_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}
	r.db = db

	fields := strings.Join(structs.Names(Event{}), ", \n\t")
	createTableSQL := `CREATE TABLE IF NOT EXISTS ` + eventTable +
		` (` + "\n\t" + fields + "\n" + `);`
	r.mustExecute(createTableSQL)
}

// Record buffers one event. The buffer is flushed in batches and at exit.
func (r *Recorder) Record(e Event) {
	r.entries = append(r.entries, e)

	if len(r.entries) >= r.batchSize {
		r.Flush()
	}
}

// Flush writes all buffered events to the database.
func (r *Recorder) Flush() {
	if len(r.entries) == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	stmt := r.prepareStatement()
	defer stmt.Close()

	for _, e := range r.entries {
		v := []any{}

		value := reflect.ValueOf(e)
		for i := 0; i < value.NumField(); i++ {
			v = append(v, value.Field(i).Interface())
		}

		if _, err := stmt.Exec(v...); err != nil {
			panic(err)
		}
	}

	r.entries = nil
}

// Close flushes and closes the database.
func (r *Recorder) Close() {
	r.Flush()

	if err := r.db.Close(); err != nil {
		panic(err)
	}
}

// Filename returns the database file backing the recorder.
func (r *Recorder) Filename() string {
	return r.dbName + ".sqlite3"
}

func (r *Recorder) prepareStatement() *sql.Stmt {
	names := structs.Names(Event{})
	placeholders := strings.TrimSuffix(
		strings.Repeat("?, ", len(names)), ", ")

	sqlStmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		eventTable, strings.Join(names, ", "), placeholders)

	stmt, err := r.db.Prepare(sqlStmt)
	if err != nil {
		panic(err)
	}

	return stmt
}

func (r *Recorder) mustExecute(query string) sql.Result {
	res, err := r.db.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "SQL statement failed: %s\n", query)
		panic(err)
	}
	return res
}
