// Copyright © 2024 The ELPS authors

package plist

import "golang.org/x/exp/constraints"

// Generic helpers shared by the typed buffers of a Storage.  Every helper
// works on the raw buffer; n is the logical length.

type number interface {
	constraints.Integer | constraints.Float
}

const minCapacity = 4

// growCapacity returns the capacity to allocate when a buffer of capacity
// cur must hold at least n elements.
func growCapacity(cur, n int) int {
	c := cur * 2
	if c < n {
		c = n
	}
	if c < minCapacity {
		c = minCapacity
	}
	if c > MaxLength {
		c = MaxLength
	}
	return c
}

func growBuffer[T any](buf []T, n, capacity int) []T {
	nb := make([]T, capacity)
	copy(nb, buf[:n])
	return nb
}

func cloneBuffer[T any](buf []T, n int) []T {
	nb := make([]T, n)
	copy(nb, buf[:n])
	return nb
}

// removeAt shifts buf[i+1:n] left by one and zeroes the vacated slot.
func removeAt[T any](buf []T, i, n int) {
	copy(buf[i:n-1], buf[i+1:n])
	var zero T
	buf[n-1] = zero
}

// openAt shifts buf[i:n] right by one.  The caller ensures cap > n.
func openAt[T any](buf []T, i, n int) {
	copy(buf[i+1:n+1], buf[i:n])
}

func reverseBuffer[T any](buf []T) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// gather copies n elements of src, starting at start and advancing by step,
// into dst.
func gather[T any](dst, src []T, start, step, n int) {
	if step == 1 {
		copy(dst, src[start:start+n])
		return
	}
	for i, j := start, 0; j < n; i, j = i+step, j+1 {
		dst[j] = src[i]
	}
}

// scatter writes src[0:n] to dst at positions start, start+step, ... or, if
// reversed, writes src in reverse order.
func scatter[T any](dst, src []T, start, step, n int, reversed bool) {
	if step == 1 && !reversed {
		copy(dst[start:start+n], src[:n])
		return
	}
	for i, j := start, 0; j < n; i, j = i+step, j+1 {
		if reversed {
			dst[i] = src[n-1-j]
		} else {
			dst[i] = src[j]
		}
	}
}

// repeatBuffer fills dst, whose length is a multiple of len(unit), with
// copies of unit.
func repeatBuffer[T any](dst, unit []T) {
	filled := copy(dst, unit)
	for filled < len(dst) {
		filled += copy(dst[filled:], dst[:filled])
	}
}

func indexNumber[T number](buf []T, from, to int, x T) int {
	for i := from; i < to; i++ {
		if buf[i] == x {
			return i
		}
	}
	return -1
}

func countNumber[T number](buf []T, x T) int {
	var c int
	for _, y := range buf {
		if y == x {
			c++
		}
	}
	return c
}

// firstDifference returns the first index below n where a and b differ, or n.
func firstDifference[T number](a, b []T, n int) int {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
