/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package hw

import (
	"sync/atomic"
	"unsafe"
)

// bigEndian 决定子字在 4 字节字中的位偏移
var bigEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 0
}()

// word 返回p所在的 4 字节对齐字，以及size字节宽的子字在该字中的位移和掩码
// 8/16 位值按其自然对齐存放，因此永远不会跨越 4 字节边界
func word(p unsafe.Pointer, size uintptr) (w *uint32, shift uint, mask uint32) {
	off := uintptr(p) & 3
	w = (*uint32)(unsafe.Add(p, -int(off)))
	if bigEndian {
		off = 4 - size - off
	}
	shift = uint(off * 8)
	mask = uint32(1<<(size*8)-1) << shift
	return w, shift, mask
}

func load8(p unsafe.Pointer) uint8 {
	w, shift, mask := word(p, 1)
	return uint8((atomic.LoadUint32(w) & mask) >> shift)
}

func load16(p unsafe.Pointer) uint16 {
	w, shift, mask := word(p, 2)
	return uint16((atomic.LoadUint32(w) & mask) >> shift)
}

func store8(p unsafe.Pointer, v uint8) {
	storeSub(p, 1, uint32(v))
}

func store16(p unsafe.Pointer, v uint16) {
	storeSub(p, 2, uint32(v))
}

// storeSub 只替换子字，相邻字节保持不变
func storeSub(p unsafe.Pointer, size uintptr, v uint32) {
	w, shift, mask := word(p, size)
	for {
		old := atomic.LoadUint32(w)
		n := (old &^ mask) | (v << shift)
		if atomic.CompareAndSwapUint32(w, old, n) {
			return
		}
	}
}

func cas8(p unsafe.Pointer, old, new uint8) bool {
	return casSub(p, 1, uint32(old), uint32(new))
}

func cas16(p unsafe.Pointer, old, new uint16) bool {
	return casSub(p, 2, uint32(old), uint32(new))
}

// casSub 相邻字节的并发修改会导致整字 CAS 失败，此时重试；
// 只有子字本身与old不同时才返回false，因此不会出现虚假失败
func casSub(p unsafe.Pointer, size uintptr, old, new uint32) bool {
	w, shift, mask := word(p, size)
	for {
		cur := atomic.LoadUint32(w)
		if (cur&mask)>>shift != old {
			return false
		}
		n := (cur &^ mask) | (new << shift)
		if atomic.CompareAndSwapUint32(w, cur, n) {
			return true
		}
	}
}
