package diskstore

/*
schema.go holds the manifest DDL, styled after the retrieved corpus's
sqlite schema files (e.g. untoldecay/BeadsLog's internal/storage/sqlite
schema.go, which keeps its full CREATE TABLE/INDEX statements in one
backtick-quoted const). spec.md §4.2 names the columns this table must
carry; everything else (the single table, IF NOT EXISTS guards) is this
implementation's choice since spec.md leaves schema layout unspecified
beyond the column list.
*/

const schema = `
CREATE TABLE IF NOT EXISTS items (
    key                TEXT PRIMARY KEY,
    filename           TEXT NOT NULL DEFAULT '',
    size               INTEGER NOT NULL,
    inline_data        BLOB,
    modification_time  INTEGER NOT NULL,
    last_access_time   INTEGER NOT NULL,
    extended_data      BLOB
);

CREATE INDEX IF NOT EXISTS idx_items_last_access_time ON items(last_access_time);
CREATE INDEX IF NOT EXISTS idx_items_size ON items(size);
`
