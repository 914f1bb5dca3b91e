package protocol

import "testing"

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		command  byte
		expected byte
	}{
		{
			name:     "zero",
			command:  0x00,
			expected: 0xFF,
		},
		{
			name:     "read processor location",
			command:  ReadProcessorLocation,
			expected: 0xEB,
		},
		{
			name:     "read eeprom location",
			command:  ReadEEPROMLocation,
			expected: 0xB7,
		},
		{
			name:     "write eeprom location",
			command:  WriteEEPROMLocation,
			expected: 0x35,
		},
		{
			name:     "loopback test",
			command:  LoopbackTest,
			expected: 0x44,
		},
		{
			name:     "all ones",
			command:  0xFF,
			expected: 0x00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Checksum(tt.command)
			if result != tt.expected {
				t.Errorf("Checksum(0x%02X) = 0x%02X, want 0x%02X", tt.command, result, tt.expected)
			}
		})
	}
}

func TestChecksumComplement(t *testing.T) {
	for c := 0; c <= 0xFF; c++ {
		command := byte(c)
		sum := Checksum(command)
		if sum != byte(^c&0xFF) {
			t.Fatalf("Checksum(0x%02X) = 0x%02X, want 0x%02X", command, sum, byte(^c&0xFF))
		}
		if sum^command != 0xFF {
			t.Fatalf("Checksum(0x%02X) ^ command = 0x%02X, want 0xFF", command, sum^command)
		}
	}
}

func TestValidChecksum(t *testing.T) {
	if !validChecksum([]byte{0x14, 0x32, 0x00, 0xEB}) {
		t.Error("valid frame rejected")
	}
	if validChecksum([]byte{0x14, 0x32, 0x00, 0xEC}) {
		t.Error("corrupt checksum accepted")
	}
	if validChecksum([]byte{0x14, 0x32, 0x00}) {
		t.Error("short frame accepted")
	}
}
