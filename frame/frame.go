package frame

import (
	"errors"
	"fmt"
)

// Size is the number of bytes in a supervision frame.
const Size = 5

// Flag is the reserved sentinel byte that opens and closes every frame.
const Flag byte = 0x7E

// Byte positions within a frame.
const (
	flagStartPos = 0
	addressPos   = 1
	controlPos   = 2
	bcc1Pos      = 3
	flagEndPos   = 4
)

// Address field values.
const (
	// AddressTransmitter marks commands sent by the transmitter and replies sent by the receiver.
	AddressTransmitter byte = 0x03
	// AddressReceiver marks commands sent by the receiver and replies sent by the transmitter.
	AddressReceiver byte = 0x01
)

// Control field values.
const (
	// ControlSET requests link establishment.
	ControlSET byte = 0x03
	// ControlUA is the unnumbered acknowledgement.
	ControlUA byte = 0x07
	// ControlDISC requests link termination.
	ControlDISC byte = 0x0B
)

var (
	// ErrShortFrame indicates that fewer than Size bytes were supplied.
	ErrShortFrame = errors.New("frame: short frame")
	// ErrDelimiter indicates that the start or end byte is not Flag.
	ErrDelimiter = errors.New("frame: invalid delimiter")
	// ErrBCC1 indicates that the BCC1 byte does not equal Address XOR Control.
	ErrBCC1 = errors.New("frame: BCC1 mismatch")
)

// Frame is a decoded supervision frame.
type Frame struct {
	Address byte
	Control byte
}

// Well-known frames.
var (
	// SET is the link establishment command.
	SET = Frame{Address: AddressTransmitter, Control: ControlSET}
	// UA is the acknowledgement returned for SET, [0x7E 0x01 0x07 0x06 0x7E] on the wire.
	UA = Frame{Address: AddressReceiver, Control: ControlUA}
)

// New returns a frame with the given address and control fields.
func New(address, control byte) Frame {
	return Frame{Address: address, Control: control}
}

// BCC1 returns the block check character of the frame.
func (f Frame) BCC1() byte {
	return BCC1(f.Address, f.Control)
}

// Bytes packs the frame into its five-byte wire form.
func (f Frame) Bytes() [Size]byte {
	return [Size]byte{Flag, f.Address, f.Control, f.BCC1(), Flag}
}

// String returns a hex representation of the wire form.
func (f Frame) String() string {
	b := f.Bytes()
	return fmt.Sprintf("% X", b[:])
}

// BCC1 computes the block check character for an address and control pair.
func BCC1(address, control byte) byte {
	return address ^ control
}

// Parse decodes b into a Frame.
//
// Only the first Size bytes are inspected. The returned error wraps one of
// ErrShortFrame, ErrDelimiter or ErrBCC1.
func Parse(b []byte) (Frame, error) {
	if len(b) < Size {
		return Frame{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortFrame, len(b), Size)
	}

	if b[flagStartPos] != Flag || b[flagEndPos] != Flag {
		return Frame{}, fmt.Errorf("%w: start=0x%02X, end=0x%02X", ErrDelimiter, b[flagStartPos], b[flagEndPos])
	}

	expected := BCC1(b[addressPos], b[controlPos])
	if b[bcc1Pos] != expected {
		return Frame{}, fmt.Errorf("%w: wire=0x%02X, computed=0x%02X", ErrBCC1, b[bcc1Pos], expected)
	}

	return Frame{Address: b[addressPos], Control: b[controlPos]}, nil
}
