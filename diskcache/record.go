package diskcache

// Record pairs a value with the extended-data byte sequence spec.md §9
// describes attaching to an in-memory value "retrievable by identity, not
// persisted". The source language does this with runtime-wide
// object-identity side tables; Go has no such mechanism, and reaching for
// one (e.g. a map keyed by unsafe.Pointer) would be fragile across GC
// moves and unidiomatic. Per spec.md §9's own suggested correction, the
// extended data travels explicitly alongside the value in this record
// instead.
type Record struct {
	Value        []byte
	ExtendedData []byte
}

// GetExtendedData returns r's extended data, or nil if r is nil or has
// none.
func GetExtendedData(r *Record) []byte {
	if r == nil {
		return nil
	}
	return r.ExtendedData
}

// SetExtendedData attaches data to r in place. A nil r is a no-op.
func SetExtendedData(r *Record, data []byte) {
	if r == nil {
		return
	}
	r.ExtendedData = data
}
