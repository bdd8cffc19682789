package diskstore

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

/*
trash.go implements the swap-to-trash clear protocol of spec.md §4.2:

 1. Generate a fresh UUID-named subdirectory inside trash/.
 2. Atomically rename data/ into that subdirectory.
 3. Recreate an empty data/.
 4. Truncate the manifest.
 5. Schedule an asynchronous recursive delete of the trash subtree on
    the engine's background executor.

This makes RemoveAll constant-time at the call site: the caller never
waits for the (potentially large) recursive delete, only for the rename
and the manifest truncate. google/uuid names the trash subdirectory,
grounded on its ubiquity across the retrieved corpus (steveyegge-beads,
Ezkerrox-bsc, AKJUS-bsc-erigon, and others all depend on it already).
*/

// RemoveAll clears every item. The manifest and data directory are swapped
// out synchronously; the actual recursive delete of the orphaned subtree
// runs on the engine's background pool after RemoveAll returns.
func (e *Engine) RemoveAll() bool {
	db, err := e.ensureOpen()
	if err != nil {
		return false
	}

	cleared := e.Count()

	trashSub := filepath.Join(e.trashDir, uuid.NewString())
	if err := os.Rename(e.dataDir, trashSub); err != nil {
		e.log.Error("swap-to-trash rename failed", zap.Error(err))
		return e.RemoveAllWithProgress(nil, nil)
	}
	if err := os.MkdirAll(e.dataDir, 0o755); err != nil {
		e.log.Error("recreate data dir failed", zap.Error(err))
		return false
	}
	if _, err := db.Exec(`DELETE FROM items`); err != nil {
		e.log.Error("manifest truncate failed", zap.Error(err))
		return false
	}
	e.evictions.Add(uint64(cleared))

	e.pool.Submit(func() {
		// Drain every subtree in trash/, not only this call's: a subtree
		// whose delete failed in an earlier drain is retried here.
		entries, err := os.ReadDir(e.trashDir)
		if err != nil {
			e.log.Warn("trash drain failed", zap.String("path", e.trashDir), zap.Error(err))
			return
		}
		for _, ent := range entries {
			p := filepath.Join(e.trashDir, ent.Name())
			if err := os.RemoveAll(p); err != nil {
				// Tolerated: the subtree stays in trash/ until the next drain.
				e.log.Warn("trash drain failed", zap.String("path", p), zap.Error(err))
			}
		}
	})
	return true
}

// RemoveAllWithProgress clears every item row by row, reporting progress
// periodically and an end-of-operation status, per spec.md §4.2. progress
// and end may be nil.
func (e *Engine) RemoveAllWithProgress(progress func(done, total int), end func(canceledOrErrored bool)) bool {
	db, err := e.ensureOpen()
	if err != nil {
		if end != nil {
			end(true)
		}
		return false
	}

	rows, err := db.Query(`SELECT key, filename FROM items`)
	if err != nil {
		e.log.Error("remove-all-with-progress scan failed", zap.Error(err))
		if end != nil {
			end(true)
		}
		return false
	}
	var keys, filenames []string
	for rows.Next() {
		var k, f string
		if err := rows.Scan(&k, &f); err != nil {
			rows.Close()
			if end != nil {
				end(true)
			}
			return false
		}
		keys = append(keys, k)
		filenames = append(filenames, f)
	}
	rows.Close()

	total := len(keys)
	del, err := e.prepared(db, deleteSQL)
	if err != nil {
		if end != nil {
			end(true)
		}
		return false
	}

	errored := false
	for i, k := range keys {
		if filenames[i] != "" {
			e.deleteExternal(filenames[i])
		}
		if _, err := del.Exec(k); err != nil {
			e.log.Error("row delete failed", zap.String("key", k), zap.Error(err))
			errored = true
		} else {
			e.evictions.Add(1)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	if end != nil {
		end(errored)
	}
	return !errored
}
