//go:build !tinygo

package klog

import "strconv"

// On a host build we have the real runtime, so delegate straight to
// strconv rather than hand-rolling digit loops; the allocation-light
// path in klog_mcu.go exists for the build that can't afford it.
func itoa(n int64) string  { return strconv.FormatInt(n, 10) }
func utoa(n uint64) string { return strconv.FormatUint(n, 10) }
