package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  Result
	}{
		{name: "all zero", input: []byte{0x00, 0x00, 0x00, 0x00, 0x00}, want: Invalid},
		{name: "UA", input: []byte{0x7E, 0x01, 0x07, 0x06, 0x7E}, want: Valid},
		{name: "SET", input: []byte{0x7E, 0x03, 0x03, 0x00, 0x7E}, want: Valid},
		{name: "wrong BCC1", input: []byte{0x7E, 0x01, 0x07, 0x07, 0x7E}, want: Invalid},
		{name: "bad start flag", input: []byte{0x7F, 0x01, 0x07, 0x06, 0x7E}, want: Invalid},
		{name: "bad end flag", input: []byte{0x7E, 0x01, 0x07, 0x06, 0x00}, want: Invalid},
		{name: "flag as address", input: []byte{0x7E, 0x7E, 0x00, 0x7E, 0x7E}, want: Valid},
		{name: "trailing bytes ignored", input: []byte{0x7E, 0x01, 0x07, 0x06, 0x7E, 0xFF, 0xFF}, want: Valid},
		{name: "four bytes", input: []byte{0x7E, 0x01, 0x07, 0x06}, want: Invalid},
		{name: "one byte", input: []byte{0x7E}, want: Invalid},
		{name: "empty", input: []byte{}, want: Invalid},
		{name: "nil", input: nil, want: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.input))
		})
	}
}

func TestValidate_AllAddressControlPairs(t *testing.T) {
	for a := 0; a < 256; a++ {
		for c := 0; c < 256; c++ {
			addr, ctrl := byte(a), byte(c)

			good := []byte{Flag, addr, ctrl, addr ^ ctrl, Flag}
			if Validate(good) != Valid {
				t.Fatalf("address=0x%02X control=0x%02X: expected valid", addr, ctrl)
			}

			bad := []byte{Flag, addr, ctrl, addr ^ ctrl ^ 0x01, Flag}
			if Validate(bad) != Invalid {
				t.Fatalf("address=0x%02X control=0x%02X: expected invalid", addr, ctrl)
			}
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	inputs := [][]byte{
		{0x00, 0x00, 0x00, 0x00, 0x00},
		{0x7E, 0x01, 0x07, 0x06, 0x7E},
		{0x7E, 0x01, 0x07, 0x00, 0x7E},
	}

	for _, in := range inputs {
		before := append([]byte(nil), in...)

		first := Validate(in)
		second := Validate(in)

		assert.Equal(t, first, second)
		assert.Equal(t, before, in, "Validate must not modify its input")
	}
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "unknown", Result(9).String())
	assert.True(t, Valid.IsValid())
	assert.False(t, Invalid.IsValid())
}

func TestFrame_Bytes(t *testing.T) {
	assert.Equal(t, [Size]byte{0x7E, 0x01, 0x07, 0x06, 0x7E}, UA.Bytes())
	assert.Equal(t, [Size]byte{0x7E, 0x03, 0x03, 0x00, 0x7E}, SET.Bytes())

	f := New(0x01, 0x07)
	assert.Equal(t, byte(0x06), f.BCC1())
	assert.Equal(t, UA, f)
	assert.Equal(t, "7E 01 07 06 7E", f.String())
}

func TestFrame_BytesRoundTripValidates(t *testing.T) {
	for _, f := range []Frame{SET, UA, New(AddressTransmitter, ControlDISC), New(0xFF, 0x00)} {
		b := f.Bytes()
		assert.Equal(t, Valid, Validate(b[:]), "frame %s", f)

		parsed, err := Parse(b[:])
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte{0x7E, 0x01})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortFrame))

	_, err = Parse([]byte{0x00, 0x01, 0x07, 0x06, 0x7E})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDelimiter))

	_, err = Parse([]byte{0x7E, 0x01, 0x07, 0x06, 0x7D})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDelimiter))

	_, err = Parse([]byte{0x7E, 0x01, 0x07, 0x00, 0x7E})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBCC1))
	assert.Contains(t, err.Error(), "wire=0x00, computed=0x06")
}

// FuzzValidate checks that Validate never panics and agrees with Parse.
func FuzzValidate(f *testing.F) {
	f.Add([]byte{0x7E, 0x01, 0x07, 0x06, 0x7E})
	f.Add([]byte{0x7E, 0x03, 0x03, 0x00, 0x7E})
	f.Add([]byte{0x00, 0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0x7E, 0x01, 0x07})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		res := Validate(data)
		_, err := Parse(data)

		if res == Valid && err != nil {
			t.Fatalf("Validate=valid but Parse failed: %v", err)
		}
		if res == Invalid && err == nil {
			t.Fatalf("Validate=invalid but Parse succeeded for % X", data)
		}
	})
}
