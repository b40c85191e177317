// package repositories provides the SQLite persistence layer for run history.
package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence advances and returns the sequence counter for the given table.
//
// Each sequenced table has a companion <table>_sequence table holding a
// single counter row. The increment-and-read is one statement, so concurrent
// callers never observe the same value. Sequence numbers order runs for
// display (run #42) and are never exposed as identifiers.
func NextSequence(db *sql.DB, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}

	return sequence, nil
}
