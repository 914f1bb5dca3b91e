package eeprom

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Constants for the image file format.
const (
	// Header is written as the first line of every image
	Header = "# pli eeprom image"

	// CommentPrefix starts a comment line
	CommentPrefix = "#"

	// Separator splits index from value
	Separator = "="

	// MaxEntries is the number of addressable EEPROM locations
	MaxEntries = 256
)

// Parse parses an image file from the given path.
//
// Example:
//
//	img, err := eeprom.Parse("controller.eeprom")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Parse(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses an image from any io.Reader.
//
// Each non-empty, non-comment line holds one location as two hex digits
// for the index and two for the value:
//
//	# pli eeprom image
//	2B=18
//	2C=0F
func ParseReader(r io.Reader) (*Image, error) {
	scanner := bufio.NewScanner(r)
	img := &Image{}
	seen := make(map[byte]int, MaxEntries)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		entry, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if prev, dup := seen[entry.Index]; dup {
			return nil, fmt.Errorf("line %d: duplicate index 0x%02X (first on line %d)", lineNum, entry.Index, prev)
		}
		seen[entry.Index] = lineNum

		img.Entries = append(img.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(img.Entries) == 0 {
		return nil, fmt.Errorf("no entries found in file")
	}

	return img, nil
}

// parseEntry parses a single "II=VV" line.
func parseEntry(line string) (Entry, error) {
	idx, val, ok := strings.Cut(line, Separator)
	if !ok {
		return Entry{}, fmt.Errorf("missing %q in %q", Separator, line)
	}

	index, err := parseHexByte(idx)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid index: %w", err)
	}
	value, err := parseHexByte(val)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid value: %w", err)
	}

	return Entry{Index: index, Value: value}, nil
}

func parseHexByte(s string) (byte, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return 0, fmt.Errorf("expected 2 hex characters, got %q", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid hex data: %w", err)
	}
	return b[0], nil
}

// WriteTo writes the image in the format read by ParseReader.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64

	n, err := fmt.Fprintln(bw, Header)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, e := range img.Entries {
		n, err := fmt.Fprintf(bw, "%02X%s%02X\n", e.Index, Separator, e.Value)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}
