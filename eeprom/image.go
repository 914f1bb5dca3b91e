package eeprom

// Image is a set of EEPROM locations and their values.
type Image struct {
	// Entries are kept in file order
	Entries []Entry
}

// Entry is a single EEPROM location.
type Entry struct {
	// Index is the EEPROM location
	Index byte

	// Value is the byte stored there
	Value byte
}

// Lookup returns the value stored for index.
func (img *Image) Lookup(index byte) (byte, bool) {
	for _, e := range img.Entries {
		if e.Index == index {
			return e.Value, true
		}
	}
	return 0, false
}
