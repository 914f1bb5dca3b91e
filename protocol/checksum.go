package protocol

// Checksum returns the checksum byte of a command frame: the one's
// complement of the command code. It is a framing marker, not an
// error-detecting code, and covers only the command byte.
//
// For any command c, c ^ Checksum(c) == 0xFF.
func Checksum(command byte) byte {
	return ^command
}

// validChecksum reports whether frame carries a matching checksum byte.
func validChecksum(frame []byte) bool {
	return len(frame) == CommandSize && frame[3] == Checksum(frame[0])
}
