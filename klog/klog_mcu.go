//go:build tinygo

package klog

import "microkernel/x/conv"

// On an MCU build, avoid strconv's allocation and go through the
// no-alloc digit-writer in x/conv, matching the host/mcu split used
// throughout this module (x/strconvx, x/fmtx).
func itoa(n int64) string {
	var buf [20]byte
	return string(conv.Itoa(buf[:], n))
}

func utoa(n uint64) string {
	var buf [20]byte
	return string(conv.Utoa(buf[:], n))
}
