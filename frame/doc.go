// Package frame implements the fixed-length supervision frame used to
// establish a point-to-point serial link.
//
// A frame on the wire is exactly five bytes:
//
//	[Flag(0x7E)][Address][Control][BCC1][Flag(0x7E)]
//
// BCC1 is the block check character, computed as Address XOR Control.
// No byte stuffing is performed at this layer, so a 0x7E appearing in the
// address or control position is carried verbatim.
//
// # Validation
//
// [Validate] is a pure predicate over a candidate byte slice. It never
// panics: slices shorter than [Size] are reported as [Invalid] without
// being indexed. [Parse] applies the same rule but reports why a candidate
// was rejected, using the [ErrShortFrame], [ErrDelimiter] and [ErrBCC1]
// sentinels.
//
// # Well-known frames
//
// [SET] is sent by the transmitter to request link establishment and [UA]
// is the receiver's unnumbered acknowledgement.
package frame
