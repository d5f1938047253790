/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package atomicpoly

import (
	"sync/atomic"

	"github.com/bruceshao/atomicpoly/internal/engine"
)

// align64 使 64 位类型在 32 位平台上同样 8 字节对齐，本身不占空间
type align64 = [0]atomic.Int64

type (
	i8Cell      = engine.Int[int8, i8Backend]
	u8Cell      = engine.Int[uint8, u8Backend]
	i16Cell     = engine.Int[int16, i16Backend]
	u16Cell     = engine.Int[uint16, u16Backend]
	i32Cell     = engine.Int[int32, i32Backend]
	u32Cell     = engine.Int[uint32, u32Backend]
	i64Cell     = engine.Int[int64, i64Backend]
	u64Cell     = engine.Int[uint64, u64Backend]
	intCell     = engine.Int[int, intBackend]
	uintptrCell = engine.Int[uintptr, uintptrBackend]
	boolCell    = engine.Flag[boolBackend]
)

// Int8 原子 int8
// 提供 Load、Store、Swap、CompareExchange、CompareExchangeWeak、FetchAdd、FetchSub、
// FetchAnd、FetchOr、FetchXor、FetchNand、FetchMax、FetchMin、FetchUpdate 与 GetMut，
// 以下整数类型的方法集合相同。
//
// 8/16 位类型与 Bool 通过对所在 4 字节字做 CAS 实现，同一个字里的相邻字段若用普通读写访问，
// race detector 会报告数据竞争；这类相邻字段也应使用原子类型。
//
// FetchUpdate 的函数参数在 Cas / Full 级别下运行于临界区内，不能访问其他原子类型。
type Int8 struct {
	_ noCopy
	i8Cell
}

func NewInt8(v int8) Int8 {
	return Int8{i8Cell: engine.MakeInt[int8, i8Backend](v)}
}

// Uint8 原子 uint8，相邻字节的访问要求见 Int8
type Uint8 struct {
	_ noCopy
	u8Cell
}

func NewUint8(v uint8) Uint8 {
	return Uint8{u8Cell: engine.MakeInt[uint8, u8Backend](v)}
}

// Int16 原子 int16，相邻字节的访问要求见 Int8
type Int16 struct {
	_ noCopy
	i16Cell
}

func NewInt16(v int16) Int16 {
	return Int16{i16Cell: engine.MakeInt[int16, i16Backend](v)}
}

// Uint16 原子 uint16，相邻字节的访问要求见 Int8
type Uint16 struct {
	_ noCopy
	u16Cell
}

func NewUint16(v uint16) Uint16 {
	return Uint16{u16Cell: engine.MakeInt[uint16, u16Backend](v)}
}

// Int32 原子 int32
type Int32 struct {
	_ noCopy
	i32Cell
}

func NewInt32(v int32) Int32 {
	return Int32{i32Cell: engine.MakeInt[int32, i32Backend](v)}
}

// Uint32 原子 uint32
type Uint32 struct {
	_ noCopy
	u32Cell
}

func NewUint32(v uint32) Uint32 {
	return Uint32{u32Cell: engine.MakeInt[uint32, u32Backend](v)}
}

// Int64 原子 int64，在所有平台上 8 字节对齐
type Int64 struct {
	_ noCopy
	_ align64
	i64Cell
}

func NewInt64(v int64) Int64 {
	return Int64{i64Cell: engine.MakeInt[int64, i64Backend](v)}
}

// Uint64 原子 uint64，在所有平台上 8 字节对齐
type Uint64 struct {
	_ noCopy
	_ align64
	u64Cell
}

func NewUint64(v uint64) Uint64 {
	return Uint64{u64Cell: engine.MakeInt[uint64, u64Backend](v)}
}

// Int 指针宽度的原子有符号整数
type Int struct {
	_ noCopy
	intCell
}

func NewInt(v int) Int {
	return Int{intCell: engine.MakeInt[int, intBackend](v)}
}

// Uintptr 指针宽度的原子无符号整数
type Uintptr struct {
	_ noCopy
	uintptrCell
}

func NewUintptr(v uintptr) Uintptr {
	return Uintptr{uintptrCell: engine.MakeInt[uintptr, uintptrBackend](v)}
}

// Bool 原子 bool，相邻字节的访问要求见 Int8
// 除通用操作外提供 FetchAnd、FetchOr、FetchXor、FetchNand、FetchMax、FetchMin 与 FetchNot
type Bool struct {
	_ noCopy
	boolCell
}

func NewBool(v bool) Bool {
	return Bool{boolCell: engine.MakeFlag[boolBackend](v)}
}
