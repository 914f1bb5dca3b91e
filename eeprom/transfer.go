package eeprom

import (
	"context"
	"fmt"
)

// Reader reads EEPROM locations. *pli.Client implements it.
type Reader interface {
	ReadEEPROMContext(ctx context.Context, index byte) (byte, error)
}

// Writer writes EEPROM locations. *pli.Client implements it.
type Writer interface {
	ReadEEPROMContext(ctx context.Context, index byte) (byte, error)
	WriteEEPROMContext(ctx context.Context, index, value byte) (byte, error)
}

// Dump reads each index in order into a new Image.
func Dump(ctx context.Context, r Reader, indices []byte) (*Image, error) {
	img := &Image{Entries: make([]Entry, 0, len(indices))}
	for _, idx := range indices {
		v, err := r.ReadEEPROMContext(ctx, idx)
		if err != nil {
			return img, fmt.Errorf("read eeprom 0x%02X: %w", idx, err)
		}
		img.Entries = append(img.Entries, Entry{Index: idx, Value: v})
	}
	return img, nil
}

// Range returns the indices from..to inclusive.
func Range(from, to byte) []byte {
	if to < from {
		return nil
	}
	out := make([]byte, 0, int(to)-int(from)+1)
	for i := int(from); i <= int(to); i++ {
		out = append(out, byte(i))
	}
	return out
}

// VerifyError reports a location whose read-back value differs from the
// value written.
type VerifyError struct {
	Index    byte
	Expected byte
	Actual   byte
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify eeprom 0x%02X: expected 0x%02X, read back 0x%02X",
		e.Index, e.Expected, e.Actual)
}

// Restore writes every entry of img. Locations that already hold the
// desired value are skipped, which also keeps a repeated restore from
// wearing the EEPROM. With verify set, each written location is read back.
//
// Returns the number of locations written.
func Restore(ctx context.Context, w Writer, img *Image, verify bool) (int, error) {
	written := 0
	for _, e := range img.Entries {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("cancelled: %w", err)
		}

		current, err := w.ReadEEPROMContext(ctx, e.Index)
		if err != nil {
			return written, fmt.Errorf("read eeprom 0x%02X: %w", e.Index, err)
		}
		if current == e.Value {
			continue
		}

		if _, err := w.WriteEEPROMContext(ctx, e.Index, e.Value); err != nil {
			return written, fmt.Errorf("write eeprom 0x%02X: %w", e.Index, err)
		}
		written++

		if !verify {
			continue
		}
		actual, err := w.ReadEEPROMContext(ctx, e.Index)
		if err != nil {
			return written, fmt.Errorf("read eeprom 0x%02X: %w", e.Index, err)
		}
		if actual != e.Value {
			return written, &VerifyError{Index: e.Index, Expected: e.Value, Actual: actual}
		}
	}
	return written, nil
}
