package http1

import "encoding/binary"

// FieldHandler is the callback invoked when a registered header field is
// recognized. name and value are borrowed from the input buffer and must
// not be retained beyond its lifetime; data is the opaque integer given
// at registration. A non-nil error aborts the parse.
type FieldHandler func(ctx any, name, value []byte, data uintptr) error

// FieldEntry registers one header field with a FieldsHash.
type FieldEntry struct {
	Name    string
	Handler FieldHandler
	Data    uintptr
}

// hashEntry is one registered field inside a bucket. The key lanes hold
// the 8-byte-packed lowercase name; only the first ceil(len/8) lanes are
// significant, the rest stay zero.
type hashEntry struct {
	handler FieldHandler
	data    uintptr
	key     [4]uint64
}

// FieldsHash is a read-only header-name lookup structure, indexed
// primarily by name length. Built once per configuration, it may be
// shared across any number of ParseStates and goroutines.
//
// Each bucket holds the entries of one exact name length and is probed
// linearly; matching a candidate costs at most four 64-bit comparisons
// against the key packed during the name scan. Lowercasing happens once,
// at scan time, never at lookup time.
type FieldsHash struct {
	minLength int
	maxLength int

	// buckets[i] holds the entries of name length minLength+i, in
	// registration order. A nil bucket means no name of that length.
	buckets [][]hashEntry

	// longFields is reserved for names longer than 32 bytes.
	//
	// TODO: long-name lookup path.
	longFields any
}

// NewFieldsHash builds the lookup structure from the given registration
// list. Every name must be 1..32 bytes; longer names abort the build
// because the long-name path is not implemented.
func NewFieldsHash(fields []FieldEntry) (*FieldsHash, error) {
	minLength := MaxKeyedNameLength + 1
	maxLength := 0

	for i := range fields {
		length := len(fields[i].Name)

		if length == 0 {
			return nil, ErrFieldNameEmpty
		}
		if length > MaxKeyedNameLength {
			return nil, ErrFieldNameTooLong
		}

		if length < minLength {
			minLength = length
		}
		if length > maxLength {
			maxLength = length
		}
	}

	h := &FieldsHash{
		minLength: minLength,
		maxLength: maxLength,
	}

	if minLength > maxLength {
		// No registrations; every lookup misses.
		return h, nil
	}

	h.buckets = make([][]hashEntry, maxLength-minLength+1)

	for i := range fields {
		length := len(fields[i].Name)

		entry := hashEntry{
			handler: fields[i].Handler,
			data:    fields[i].Data,
			key:     packKey(fields[i].Name),
		}

		slot := length - minLength
		h.buckets[slot] = append(h.buckets[slot], entry)
	}

	return h, nil
}

// packKey packs a registered name, lowercased, into 8-byte little-endian
// lanes, zero-padded. The layout matches what scanFieldName accumulates
// on the wire, so lookup reduces to lane equality.
func packKey(name string) [4]uint64 {
	var raw [MaxKeyedNameLength]byte

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 0x20
		}
		raw[i] = c
	}

	var key [4]uint64
	for lane := 0; lane < 4; lane++ {
		key[lane] = binary.LittleEndian.Uint64(raw[lane*8:])
	}
	return key
}

// lookup finds the entry whose packed key matches the accumulated scan
// key for a name of the given length. It returns nil on a miss, for a
// nil hash, and defensively for lengths outside [1, 32]: on longer names
// the rotating key buffer has wrapped and its lanes are meaningless.
func (h *FieldsHash) lookup(key *[MaxKeyedNameLength]byte, length int) *hashEntry {
	if h == nil || length < h.minLength {
		return nil
	}

	if length > h.maxLength {
		if length > MaxKeyedNameLength && h.longFields != nil {
			return h.lookupLong(key, length)
		}
		return nil
	}

	bucket := h.buckets[length-h.minLength]
	if bucket == nil {
		return nil
	}

	k0 := binary.LittleEndian.Uint64(key[0:])

	switch (length + 7) / 8 {
	case 1:
		for i := range bucket {
			if bucket[i].key[0] == k0 {
				return &bucket[i]
			}
		}

	case 2:
		k1 := binary.LittleEndian.Uint64(key[8:])

		for i := range bucket {
			if bucket[i].key[0] == k0 && bucket[i].key[1] == k1 {
				return &bucket[i]
			}
		}

	case 3:
		k1 := binary.LittleEndian.Uint64(key[8:])
		k2 := binary.LittleEndian.Uint64(key[16:])

		for i := range bucket {
			if bucket[i].key[0] == k0 && bucket[i].key[1] == k1 &&
				bucket[i].key[2] == k2 {
				return &bucket[i]
			}
		}

	case 4:
		k1 := binary.LittleEndian.Uint64(key[8:])
		k2 := binary.LittleEndian.Uint64(key[16:])
		k3 := binary.LittleEndian.Uint64(key[24:])

		for i := range bucket {
			if bucket[i].key[0] == k0 && bucket[i].key[1] == k1 &&
				bucket[i].key[2] == k2 && bucket[i].key[3] == k3 {
				return &bucket[i]
			}
		}
	}

	return nil
}

// lookupLong would serve names longer than 32 bytes.
//
// TODO: not implemented; longFields is never populated.
func (h *FieldsHash) lookupLong(key *[MaxKeyedNameLength]byte, length int) *hashEntry {
	return nil
}

// MinLength returns the shortest registered name length, or 33 when the
// hash is empty.
func (h *FieldsHash) MinLength() int {
	return h.minLength
}

// MaxLength returns the longest registered name length, or 0 when the
// hash is empty.
func (h *FieldsHash) MaxLength() int {
	return h.maxLength
}
