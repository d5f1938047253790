/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

// Package hw 硬件原子原语
// 32/64 位、uintptr 与 unsafe.Pointer 直接使用 sync/atomic；
// 8/16 位（包括 bool）没有公开的硬件原语，通过对其所在的 4 字节对齐字做 CAS 实现。
//
// 子字操作会读写整个 4 字节字：同一个字中相邻字节的值不会被改变，但如果调用方用普通读写
// 访问这些相邻字节，race detector 会把它报告为数据竞争。相邻字段应同样使用原子类型访问，
// 或者与 8/16 位原子值放在不同的 4 字节字中。
package hw

import (
	"sync/atomic"
	"unsafe"
)

// Scalar 可以被原子访问的标量类型
type Scalar interface {
	int8 | uint8 | bool | int16 | uint16 | int32 | uint32 | int64 | uint64 |
		int | uint | uintptr | unsafe.Pointer
}

// Load 原子读取
func Load[T Scalar](p *T) T {
	if q, ok := any(p).(*unsafe.Pointer); ok {
		v := atomic.LoadPointer(q)
		return *(*T)(unsafe.Pointer(&v))
	}
	switch unsafe.Sizeof(*p) {
	case 1:
		v := load8(unsafe.Pointer(p))
		return *(*T)(unsafe.Pointer(&v))
	case 2:
		v := load16(unsafe.Pointer(p))
		return *(*T)(unsafe.Pointer(&v))
	case 4:
		v := atomic.LoadUint32((*uint32)(unsafe.Pointer(p)))
		return *(*T)(unsafe.Pointer(&v))
	default:
		v := atomic.LoadUint64((*uint64)(unsafe.Pointer(p)))
		return *(*T)(unsafe.Pointer(&v))
	}
}

// Store 原子写入
func Store[T Scalar](p *T, v T) {
	if q, ok := any(p).(*unsafe.Pointer); ok {
		atomic.StorePointer(q, *(*unsafe.Pointer)(unsafe.Pointer(&v)))
		return
	}
	switch unsafe.Sizeof(*p) {
	case 1:
		store8(unsafe.Pointer(p), *(*uint8)(unsafe.Pointer(&v)))
	case 2:
		store16(unsafe.Pointer(p), *(*uint16)(unsafe.Pointer(&v)))
	case 4:
		atomic.StoreUint32((*uint32)(unsafe.Pointer(p)), *(*uint32)(unsafe.Pointer(&v)))
	default:
		atomic.StoreUint64((*uint64)(unsafe.Pointer(p)), *(*uint64)(unsafe.Pointer(&v)))
	}
}

// CompareAndSwap 强语义的比较交换：只有当前值与old不相等时才返回false
func CompareAndSwap[T Scalar](p *T, old, new T) bool {
	if q, ok := any(p).(*unsafe.Pointer); ok {
		return atomic.CompareAndSwapPointer(q,
			*(*unsafe.Pointer)(unsafe.Pointer(&old)), *(*unsafe.Pointer)(unsafe.Pointer(&new)))
	}
	switch unsafe.Sizeof(*p) {
	case 1:
		return cas8(unsafe.Pointer(p), *(*uint8)(unsafe.Pointer(&old)), *(*uint8)(unsafe.Pointer(&new)))
	case 2:
		return cas16(unsafe.Pointer(p), *(*uint16)(unsafe.Pointer(&old)), *(*uint16)(unsafe.Pointer(&new)))
	case 4:
		return atomic.CompareAndSwapUint32((*uint32)(unsafe.Pointer(p)),
			*(*uint32)(unsafe.Pointer(&old)), *(*uint32)(unsafe.Pointer(&new)))
	default:
		return atomic.CompareAndSwapUint64((*uint64)(unsafe.Pointer(p)),
			*(*uint64)(unsafe.Pointer(&old)), *(*uint64)(unsafe.Pointer(&new)))
	}
}
