package eeprom

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Image
		wantErr bool
		errMsg  string
	}{
		{
			name:  "valid simple image",
			input: "# pli eeprom image\n2B=18\n",
			want:  &Image{Entries: []Entry{{Index: 0x2B, Value: 0x18}}},
		},
		{
			name:  "comments blanks and lowercase",
			input: "\n# comment\n2b=ff\n\n  00 = 01  \n",
			want: &Image{Entries: []Entry{
				{Index: 0x2B, Value: 0xFF},
				{Index: 0x00, Value: 0x01},
			}},
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: true,
			errMsg:  "no entries found",
		},
		{
			name:    "missing separator",
			input:   "2B18\n",
			wantErr: true,
			errMsg:  "line 1",
		},
		{
			name:    "invalid hex",
			input:   "# hdr\nZZ=01\n",
			wantErr: true,
			errMsg:  "line 2: invalid index",
		},
		{
			name:    "value too long",
			input:   "01=123\n",
			wantErr: true,
			errMsg:  "invalid value",
		},
		{
			name:    "duplicate index",
			input:   "01=01\n01=02\n",
			wantErr: true,
			errMsg:  "duplicate index 0x01 (first on line 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReader(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseReader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	img := &Image{Entries: []Entry{{Index: 0x2B, Value: 0x18}, {Index: 0x02, Value: 0xA0}}}

	var buf bytes.Buffer
	n, err := img.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() = %d, buffer holds %d", n, buf.Len())
	}
	want := Header + "\n2B=18\n02=A0\n"
	if buf.String() != want {
		t.Errorf("WriteTo() wrote %q, want %q", buf.String(), want)
	}

	path := filepath.Join(t.TempDir(), "controller.eeprom")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !reflect.DeepEqual(got, img) {
		t.Errorf("Parse() = %+v, want %+v", got, img)
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLookup(t *testing.T) {
	img := &Image{Entries: []Entry{{Index: 0x10, Value: 0x20}}}
	if v, ok := img.Lookup(0x10); !ok || v != 0x20 {
		t.Errorf("Lookup(0x10) = 0x%02X, %v", v, ok)
	}
	if _, ok := img.Lookup(0x11); ok {
		t.Error("Lookup(0x11) found a value")
	}
}
