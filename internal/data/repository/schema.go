package repository

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
)

// recordTables lists the tables reachable through RecordRepository and
// the columns each accepts. Identifiers are never taken from input
// without passing through this list.
var recordTables = map[string]map[string]bool{
	"organizations": columnSet("id", "name", "owner_id", "org_code", "passkey", "number_of_shops", "created_at"),
	"users":         columnSet("id", "name", "email", "phone", "role", "org_id", "created_at"),
	"shops":         columnSet("id", "name", "location", "category", "org_id", "created_at"),
}

func columnSet(columns ...string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return set
}

func checkTable(table string) (map[string]bool, error) {
	columns, ok := recordTables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return columns, nil
}

func checkColumn(table string, columns map[string]bool, column string) error {
	if !columns[column] {
		return fmt.Errorf("%w: %s.%q", ErrUnknownColumn, table, column)
	}
	return nil
}
