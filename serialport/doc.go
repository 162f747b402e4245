// Package serialport configures a serial line for raw, byte-oriented I/O.
//
// A Port owns the file descriptor of a terminal device. The expected
// lifecycle is:
//
//	p, err := serialport.Open("/dev/ttyS1")
//	...
//	err = p.Capture()      // snapshot the original termios
//	err = p.ApplyRawMode() // flush, then switch to raw mode
//	...                    // p.Read / p.Write
//	err = p.Restore()      // reapply the snapshot
//	err = p.Close()
//
// # Read policy
//
// Raw mode sets VMIN to 0 and VTIME to the configured read timer, so a Read
// returns as soon as any byte is available, or with zero bytes once the
// timer expires. The descriptor is kept in blocking mode and is not handed
// to the Go runtime poller, because the poller would hide the VTIME
// semantics behind EAGAIN.
//
// # Platforms
//
// Linux and Darwin are supported. They differ only in the termios ioctl
// request codes and the way the baud rate is encoded.
package serialport
