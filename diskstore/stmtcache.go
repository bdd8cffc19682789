package diskstore

import "database/sql"

/*
stmtcache.go implements the prepared-statement cache spec.md §4.2
requires: "every distinct SQL text is prepared once per database handle
and cached; on reuse the statement is reset and rebound. The cache is
dropped on database close."

This is also the fix for spec.md §9 Open Question 1: the source bumps
last_access_time with a string-interpolated UPDATE; every access in this
engine, including that bump, goes through a prepared statement from this
cache, so a key containing a quote character cannot escape its binding.

database/sql's *sql.Stmt already re-binds parameters per Query/Exec call
without needing an explicit "reset" step (that bookkeeping is internal
to the driver-level statement the *sql.Stmt wraps), so caching by SQL
text and calling Exec/Query/QueryRow again is the reset-and-rebind the
spec describes.
*/

// prepared returns a cached *sql.Stmt for query, preparing and caching
// it on first use.
func (e *Engine) prepared(db *sql.DB, query string) (*sql.Stmt, error) {
	e.stmtMu.Lock()
	defer e.stmtMu.Unlock()

	if stmt, ok := e.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := db.Prepare(query)
	if err != nil {
		return nil, err
	}
	e.stmts[query] = stmt
	return stmt, nil
}
