// Package auditlog appends persona assignment decisions to an
// append-only CSV. The engine itself persists nothing; this log is how
// the CLI host, as the caller, keeps its decision history.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the decision log.
type Entry struct {
	Timestamp       time.Time
	RunRef          string
	UserID          string
	PersonaID       string
	Priority        int // 0 = unclassified
	QualifyingCount int
	Reason          string
	RegistryVersion int
}

// Header is the CSV header for decisions.csv.
const Header = "timestamp,run_ref,user_id,persona_id,priority,qualifying_count,reason,registry_version"

const (
	numFields     = 8
	logDir        = "logs"
	logFile       = "logs/decisions.csv"
	colTimestamp  = 0
	colRunRef     = 1
	colUserID     = 2
	colPersonaID  = 3
	colPriority   = 4
	colQualifying = 5
	colReason     = 6
	colRegistry   = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunRef] = e.RunRef
	row[colUserID] = e.UserID
	row[colPersonaID] = e.PersonaID
	if e.Priority != 0 {
		row[colPriority] = strconv.Itoa(e.Priority)
	}
	row[colQualifying] = strconv.Itoa(e.QualifyingCount)
	row[colReason] = e.Reason
	row[colRegistry] = strconv.Itoa(e.RegistryVersion)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp: ts,
		RunRef:    record[colRunRef],
		UserID:    record[colUserID],
		PersonaID: record[colPersonaID],
		Reason:    record[colReason],
	}

	if record[colPriority] != "" {
		e.Priority, err = strconv.Atoi(record[colPriority])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing priority %q: %w", record[colPriority], err)
		}
	}
	e.QualifyingCount, err = strconv.Atoi(record[colQualifying])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing qualifying count %q: %w", record[colQualifying], err)
	}
	e.RegistryVersion, err = strconv.Atoi(record[colRegistry])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing registry version %q: %w", record[colRegistry], err)
	}
	return e, nil
}

// Append writes entries to <root>/logs/decisions.csv, creating the file
// and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/decisions.csv. Returns an
// empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading decision log CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
