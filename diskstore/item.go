package diskstore

/*
item.go defines the disk tier's logical record, spec.md §3.2
KVStorageItem, and the StorageType enum governing where its payload
lives.
*/

// Item is the logical record persisted in the manifest: a key, its
// payload (inline or external), and bookkeeping metadata. It mirrors
// spec.md's KVStorageItem exactly.
type Item struct {
	// Key is the record's unique, non-empty identity.
	Key string
	// Value is the payload. Non-empty on write; populated on Get, left
	// nil on GetInfo.
	Value []byte
	// Filename is set iff the payload is stored externally under the
	// engine's data directory.
	Filename string
	// Size is the byte count of Value, always populated even when
	// Value itself is not loaded (GetInfo).
	Size int64
	// ModificationTime is wall-clock seconds since the epoch, set on
	// every write. 64-bit to avoid the source's 32-bit overflow past
	// 2038 (spec.md §9 Open Question 3).
	ModificationTime int64
	// LastAccessTime is wall-clock seconds since the epoch, updated on
	// every successful Get.
	LastAccessTime int64
	// ExtendedData is an optional opaque byte sequence persisted
	// alongside the record.
	ExtendedData []byte
}

// Inline reports whether this item's payload is stored in the manifest's
// inline_data column rather than as an external file.
func (it *Item) Inline() bool { return it.Filename == "" }

// StorageType selects where a Save call's payload is written.
type StorageType int

const (
	// StorageSQLite always stores the payload inline in the manifest.
	StorageSQLite StorageType = iota
	// StorageFile always stores the payload externally; Filename is
	// required on every Save.
	StorageFile
	// StorageMixed lets the caller decide per write: Filename set means
	// external, Filename unset means inline.
	StorageMixed
)

func (t StorageType) String() string {
	switch t {
	case StorageSQLite:
		return "sqlite"
	case StorageFile:
		return "file"
	case StorageMixed:
		return "mixed"
	default:
		return "unknown"
	}
}
