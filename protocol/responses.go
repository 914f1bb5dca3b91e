package protocol

// DecodeResponse extracts status and value from a response frame.
//
// Response frame structure:
//
//	[STATUS][VALUE]
//
// A frame shorter than ResponseSize means the transport did not fill the
// buffer and yields a *MalformedResponseError. The status is not checked
// here; see ResponseFrame.OK.
func DecodeResponse(frame []byte) (ResponseFrame, error) {
	if len(frame) < ResponseSize {
		return ResponseFrame{}, &MalformedResponseError{Want: ResponseSize, Got: len(frame)}
	}
	return ResponseFrame{Status: frame[0], Value: frame[1]}, nil
}

// DecodeLoopback interprets the single-byte loopback response.
// Returns true iff the byte equals LoopbackSuccess. Any other byte is a
// well-formed failure, not an error.
func DecodeLoopback(frame []byte) (bool, error) {
	if len(frame) < LoopbackResponseSize {
		return false, &MalformedResponseError{Want: LoopbackResponseSize, Got: len(frame)}
	}
	return frame[0] == LoopbackSuccess, nil
}

// EncodeResponse builds a response frame. Used by simulated adaptors.
func EncodeResponse(status, value byte) []byte {
	return []byte{status, value}
}
