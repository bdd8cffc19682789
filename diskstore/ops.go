package diskstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

/*
ops.go implements the per-key and bulk-predicate operations of spec.md
§4.2. Every operation here returns a boolean success indicator or a nil
item on miss/failure (spec.md §7: "every operation returns a boolean
success indicator... errors are optionally logged and never raised out
of the engine").
*/

const (
	upsertSQL = `
INSERT INTO items (key, filename, size, inline_data, modification_time, last_access_time, extended_data)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    filename = excluded.filename,
    size = excluded.size,
    inline_data = excluded.inline_data,
    modification_time = excluded.modification_time,
    last_access_time = excluded.last_access_time,
    extended_data = excluded.extended_data`

	selectSQL = `SELECT filename, size, inline_data, modification_time, last_access_time, extended_data FROM items WHERE key = ?`

	touchSQL = `UPDATE items SET last_access_time = ? WHERE key = ?`

	deleteSQL = `DELETE FROM items WHERE key = ?`

	countSQL     = `SELECT COUNT(*) FROM items`
	totalSizeSQL = `SELECT COALESCE(SUM(size), 0) FROM items`

	selectLargerThanSQL  = `SELECT key, filename FROM items WHERE size > ?`
	selectEarlierThanSQL = `SELECT key, filename FROM items WHERE modification_time < ?`

	selectByAccessAscSQL = `SELECT key, filename, size FROM items ORDER BY last_access_time ASC`
)

// Save inserts or replaces key with value under the rules spec.md §4.2
// gives for the engine's storage type: StorageFile requires filename;
// StorageSQLite forbids it; StorageMixed allows either. Empty key or
// empty value is an invalid-argument failure.
func (e *Engine) Save(key string, value []byte, filename string, extendedData []byte) bool {
	if key == "" || len(value) == 0 {
		return false
	}
	if err := e.validateFilenameForStorageType(filename); err != nil {
		e.log.Debug("save rejected", zap.String("key", key), zap.Error(err))
		return false
	}
	if e.storageType == StorageFile && filename == "" {
		return false
	}

	db, err := e.ensureOpen()
	if err != nil {
		return false
	}

	now := time.Now().Unix()
	var inline []byte
	if filename == "" {
		inline = value
		if err := e.removeExternalIfPresent(key); err != nil {
			e.log.Warn("cleanup stale external file failed", zap.String("key", key), zap.Error(err))
		}
	} else {
		path := e.externalPath(filename)
		if err := writeFileAtomic(path, value); err != nil {
			e.log.Error("write external payload failed", zap.String("key", key), zap.Error(err))
			return false
		}
	}

	stmt, err := e.prepared(db, upsertSQL)
	if err != nil {
		e.log.Error("prepare upsert failed", zap.Error(err))
		return false
	}
	if _, err := stmt.Exec(key, filename, int64(len(value)), inline, now, now, nullableBlob(extendedData)); err != nil {
		e.log.Error("upsert exec failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// validateFilenameForStorageType treats supplying filename in sqlite
// mode as the programmer-error/invalid-argument case spec.md §7 names.
func (e *Engine) validateFilenameForStorageType(filename string) error {
	if e.storageType == StorageSQLite && filename != "" {
		return fmt.Errorf("diskstore: filename not allowed in sqlite storage mode")
	}
	return nil
}

// Get returns the full item, including its payload, and bumps
// last_access_time as a side effect of a successful read.
func (e *Engine) Get(key string) (*Item, bool) {
	if key == "" {
		e.misses.Add(1)
		return nil, false
	}
	db, err := e.ensureOpen()
	if err != nil {
		e.misses.Add(1)
		return nil, false
	}

	stmt, err := e.prepared(db, selectSQL)
	if err != nil {
		e.misses.Add(1)
		return nil, false
	}

	var filename string
	var size, modTime, accessTime int64
	var inline, extended []byte
	row := stmt.QueryRow(key)
	if err := row.Scan(&filename, &size, &inline, &modTime, &accessTime, &extended); err != nil {
		if err != sql.ErrNoRows {
			e.log.Error("select failed", zap.String("key", key), zap.Error(err))
		}
		e.misses.Add(1)
		return nil, false
	}

	value := inline
	if filename != "" {
		value, err = os.ReadFile(e.externalPath(filename))
		if err != nil {
			e.log.Error("read external payload failed", zap.String("key", key), zap.Error(err))
			e.misses.Add(1)
			return nil, false
		}
	}
	e.hits.Add(1)

	now := time.Now().Unix()
	if touch, err := e.prepared(db, touchSQL); err == nil {
		if _, err := touch.Exec(now, key); err != nil {
			e.log.Warn("access-time bump failed", zap.String("key", key), zap.Error(err))
		} else {
			accessTime = now
		}
	}

	return &Item{
		Key: key, Value: value, Filename: filename, Size: size,
		ModificationTime: modTime, LastAccessTime: accessTime, ExtendedData: extended,
	}, true
}

// GetInfo returns the item's metadata without loading its payload.
func (e *Engine) GetInfo(key string) (*Item, bool) {
	if key == "" {
		return nil, false
	}
	db, err := e.ensureOpen()
	if err != nil {
		return nil, false
	}
	stmt, err := e.prepared(db, selectSQL)
	if err != nil {
		return nil, false
	}

	var filename string
	var size, modTime, accessTime int64
	var inline, extended []byte
	row := stmt.QueryRow(key)
	if err := row.Scan(&filename, &size, &inline, &modTime, &accessTime, &extended); err != nil {
		return nil, false
	}
	return &Item{
		Key: key, Filename: filename, Size: size,
		ModificationTime: modTime, LastAccessTime: accessTime, ExtendedData: extended,
	}, true
}

// Remove deletes key's manifest row, deleting any external payload file.
// Removing an absent key is still a success (spec.md §8 property 6).
func (e *Engine) Remove(key string) bool {
	return e.RemoveMany([]string{key})
}

// RemoveMany deletes several keys' manifest rows in one pass.
func (e *Engine) RemoveMany(keys []string) bool {
	db, err := e.ensureOpen()
	if err != nil {
		return false
	}
	del, err := e.prepared(db, deleteSQL)
	if err != nil {
		return false
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := e.removeExternalIfPresent(key); err != nil {
			e.log.Warn("remove external payload failed", zap.String("key", key), zap.Error(err))
		}
		if _, err := del.Exec(key); err != nil {
			e.log.Error("delete failed", zap.String("key", key), zap.Error(err))
			return false
		}
		e.evictions.Add(1)
	}
	return true
}

// RemoveItemsLargerThan deletes every item whose size exceeds max bytes.
func (e *Engine) RemoveItemsLargerThan(max int64) bool {
	return e.removeByPredicate(selectLargerThanSQL, max)
}

// RemoveItemsEarlierThan deletes every item whose modification time
// (wall-clock seconds since the epoch) is before cutoff.
func (e *Engine) RemoveItemsEarlierThan(cutoff int64) bool {
	return e.removeByPredicate(selectEarlierThanSQL, cutoff)
}

func (e *Engine) removeByPredicate(querySQL string, arg int64) bool {
	db, err := e.ensureOpen()
	if err != nil {
		return false
	}
	stmt, err := e.prepared(db, querySQL)
	if err != nil {
		return false
	}
	rows, err := stmt.Query(arg)
	if err != nil {
		e.log.Error("predicate select failed", zap.Error(err))
		return false
	}
	var keys []string
	var filenames []string
	for rows.Next() {
		var k, f string
		if err := rows.Scan(&k, &f); err != nil {
			rows.Close()
			return false
		}
		keys = append(keys, k)
		filenames = append(filenames, f)
	}
	rows.Close()

	for i, k := range keys {
		if filenames[i] != "" {
			e.deleteExternal(filenames[i])
		}
	}
	return e.deleteKeys(db, keys)
}

func (e *Engine) deleteKeys(db *sql.DB, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	del, err := e.prepared(db, deleteSQL)
	if err != nil {
		return false
	}
	for _, k := range keys {
		if _, err := del.Exec(k); err != nil {
			e.log.Error("delete failed", zap.String("key", k), zap.Error(err))
			return false
		}
		e.evictions.Add(1)
	}
	return true
}

// RemoveItemsToFitSize repeatedly evicts the least-recently-accessed
// item until the manifest's total size is <= max (spec.md §4.2, and the
// correction of §9 Open Question 2: the source's stub did not order by
// access time — this does).
func (e *Engine) RemoveItemsToFitSize(max int64) bool {
	return e.removeToFit(max, func(rows []fitRow) int64 {
		var total int64
		for _, r := range rows {
			total += r.size
		}
		return total
	})
}

// RemoveItemsToFitCount repeatedly evicts the least-recently-accessed
// item until the manifest holds <= max rows.
func (e *Engine) RemoveItemsToFitCount(max int64) bool {
	return e.removeToFit(max, func(rows []fitRow) int64 {
		return int64(len(rows))
	})
}

type fitRow struct {
	key      string
	filename string
	size     int64
}

// removeToFit loads every row ordered by ascending last_access_time
// (oldest/LRU first) and evicts from the front until measure(remaining)
// <= max.
func (e *Engine) removeToFit(max int64, measure func([]fitRow) int64) bool {
	db, err := e.ensureOpen()
	if err != nil {
		return false
	}
	stmt, err := e.prepared(db, selectByAccessAscSQL)
	if err != nil {
		return false
	}
	rows, err := stmt.Query()
	if err != nil {
		e.log.Error("fit-scan query failed", zap.Error(err))
		return false
	}
	var all []fitRow
	for rows.Next() {
		var r fitRow
		if err := rows.Scan(&r.key, &r.filename, &r.size); err != nil {
			rows.Close()
			return false
		}
		all = append(all, r)
	}
	rows.Close()

	i := 0
	for i < len(all) && measure(all[i:]) > max {
		i++
	}
	toRemove := all[:i]

	for _, r := range toRemove {
		if r.filename != "" {
			e.deleteExternal(r.filename)
		}
	}
	keys := make([]string, len(toRemove))
	for i, r := range toRemove {
		keys[i] = r.key
	}
	return e.deleteKeys(db, keys)
}

// Count returns the number of manifest rows.
func (e *Engine) Count() int64 {
	db, err := e.ensureOpen()
	if err != nil {
		return 0
	}
	stmt, err := e.prepared(db, countSQL)
	if err != nil {
		return 0
	}
	var n int64
	if err := stmt.QueryRow().Scan(&n); err != nil {
		return 0
	}
	return n
}

// TotalSize returns the sum of size across every manifest row.
func (e *Engine) TotalSize() int64 {
	db, err := e.ensureOpen()
	if err != nil {
		return 0
	}
	stmt, err := e.prepared(db, totalSizeSQL)
	if err != nil {
		return 0
	}
	var n int64
	if err := stmt.QueryRow().Scan(&n); err != nil {
		return 0
	}
	return n
}

func (e *Engine) externalPath(filename string) string {
	return filepath.Join(e.dataDir, filename)
}

func (e *Engine) removeExternalIfPresent(key string) error {
	item, ok := e.GetInfo(key)
	if !ok || item.Filename == "" {
		return nil
	}
	e.deleteExternal(item.Filename)
	return nil
}

// deleteExternal removes a payload file from the data directory,
// treating absence as success (spec.md §4.2 external-file operations).
func (e *Engine) deleteExternal(filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(e.externalPath(filename)); err != nil && !os.IsNotExist(err) {
		e.log.Warn("delete external payload failed", zap.String("filename", filename), zap.Error(err))
	}
}

func nullableBlob(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return b
}

// writeFileAtomic writes data to path by writing to a sibling temp file
// and renaming it into place, so a crash never leaves a partially
// written payload visible under its final name (spec.md §4.2: "writes
// are atomic (write-then-rename)").
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
