package frame

// Result is the outcome of validating a candidate frame.
type Result uint8

const (
	// Invalid means the candidate is not a well-formed frame.
	Invalid Result = iota
	// Valid means the candidate is a well-formed frame.
	Valid
)

// IsValid reports whether r is Valid.
func (r Result) IsValid() bool { return r == Valid }

// String returns string representation of the result.
func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Validate reports whether b holds a well-formed frame.
//
// b is Valid iff it has at least Size bytes, b[0] and b[4] equal Flag and
// b[3] equals b[1] XOR b[2]. Bytes past index 4 are not inspected.
func Validate(b []byte) Result {
	if len(b) < Size {
		return Invalid
	}

	if b[flagStartPos] == Flag && b[flagEndPos] == Flag && b[bcc1Pos] == BCC1(b[addressPos], b[controlPos]) {
		return Valid
	}

	return Invalid
}
