package store

import "sync"

// keyPool recycles key buffers on the read and write paths.
var keyPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, 128)
	},
}

// buildKey concatenates parts into a pooled buffer. The caller must hand the
// buffer back with releaseKey once Badger no longer needs it. Keys passed to
// txn.Set must not be released before the transaction commits.
func buildKey(parts ...string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return buf
}

func releaseKey(key []byte) {
	if cap(key) <= 512 {
		keyPool.Put(key[:0]) //nolint:staticcheck // slice header allocation is fine here
	}
}

const (
	indexSegment = "idx:"
	// lookupSep separates the indexed value from the document id in
	// non-unique index keys.
	lookupSep = "\x00"
)

func uniqueIndexKey(prefix, index, value string) string {
	return prefix + indexSegment + index + ":" + value
}

func lookupIndexPrefix(prefix, index, value string) string {
	return prefix + indexSegment + index + ":" + value + lookupSep
}
