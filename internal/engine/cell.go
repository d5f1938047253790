/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

// Package engine 原子单元引擎
// 一个泛型引擎，按标量类型T和后端B（Native / Cas / Full）参数化，实现完整的原子操作集合。
// Cell 只包含一个T，大小与对齐和普通标量完全一致，不做任何内存分配。
package engine

import (
	"unsafe"

	"github.com/bruceshao/atomicpoly/internal/hw"
	"github.com/bruceshao/atomicpoly/order"
	"github.com/bruceshao/atomicpoly/target"
)

// Integer 支持算术与位运算的整数类型
type Integer interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | int | uint | uintptr
}

// Cell 单个原子单元
type Cell[T hw.Scalar, B Backend[T]] struct {
	v T
}

// Make 构造一个初始值为v的单元
func Make[T hw.Scalar, B Backend[T]](v T) Cell[T, B] {
	return Cell[T, B]{v: v}
}

// Level 该单元所使用的模拟级别
func (c *Cell[T, B]) Level() target.Level {
	var b B
	return b.Level()
}

func (c *Cell[T, B]) Load(o order.Ordering) T {
	order.MustLoad(o)
	var b B
	return b.Load(&c.v, o)
}

func (c *Cell[T, B]) Store(v T, o order.Ordering) {
	order.MustStore(o)
	var b B
	b.Store(&c.v, v, o)
}

// Swap 写入v并返回旧值
func (c *Cell[T, B]) Swap(v T, o order.Ordering) T {
	return c.op(o, func(T) T { return v })
}

// CompareExchange 当前值与current按位相等时写入new
// 成功返回 (旧值, true)；失败时存储不变，返回 (当前值, false)
func (c *Cell[T, B]) CompareExchange(current, new T, success, failure order.Ordering) (T, bool) {
	order.MustFailure(failure)
	var b B
	return b.CompareExchange(&c.v, current, new, success, failure)
}

// CompareExchangeWeak 与 CompareExchange 相同
// 在 Cas / Full 级别下临界区完全串行化了比较与写入，因此永远不会虚假失败；
// Native 级别也复用强语义的 CAS。可移植的调用方仍应按标准约定在循环中使用它，而不是依赖这一点。
func (c *Cell[T, B]) CompareExchangeWeak(current, new T, success, failure order.Ordering) (T, bool) {
	return c.CompareExchange(current, new, success, failure)
}

// FetchUpdate 条件更新
// 使用fetch的读取内存序读出旧值，f返回 (新值, true) 时以set的写入内存序写入并返回 (旧值, true)；
// f返回false时存储保持不变，返回 (旧值, false)。
// Cas / Full 级别下f每次调用只执行一次；Native 级别在 CAS 冲突时会重新执行f。
// Cas / Full 级别下f在临界区内执行，因此f不能访问其他 Cas / Full 级别的原子单元：
// 默认的 Mutex / Spin 提供者不可重入，会直接死锁。
func (c *Cell[T, B]) FetchUpdate(set, fetch order.Ordering, f func(T) (T, bool)) (T, bool) {
	order.MustLoad(fetch)
	var b B
	return b.Update(&c.v, set, fetch, f)
}

// GetMut 返回底层值的非原子视图
// 只有在调用方能够证明不存在并发访问时才可以使用（例如初始化阶段或独占所有权时）
func (c *Cell[T, B]) GetMut() *T {
	return &c.v
}

// op 通用读-改-写原语，Swap 与所有 Fetch* 操作都归约到这里
func (c *Cell[T, B]) op(o order.Ordering, f func(T) T) T {
	var b B
	return b.Modify(&c.v, o, f)
}

// Int 整数原子单元
type Int[T Integer, B Backend[T]] struct {
	Cell[T, B]
}

// MakeInt 构造一个初始值为v的整数单元
func MakeInt[T Integer, B Backend[T]](v T) Int[T, B] {
	return Int[T, B]{Cell: Cell[T, B]{v: v}}
}

// FetchAdd 按 2^width 取模回绕，不会溢出报错
func (c *Int[T, B]) FetchAdd(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return old + v })
}

func (c *Int[T, B]) FetchSub(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return old - v })
}

func (c *Int[T, B]) FetchAnd(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return old & v })
}

func (c *Int[T, B]) FetchOr(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return old | v })
}

func (c *Int[T, B]) FetchXor(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return old ^ v })
}

func (c *Int[T, B]) FetchNand(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return ^(old & v) })
}

// FetchMax 有符号类型按有符号比较，无符号类型按无符号比较
func (c *Int[T, B]) FetchMax(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return max(old, v) })
}

func (c *Int[T, B]) FetchMin(v T, o order.Ordering) T {
	return c.op(o, func(old T) T { return min(old, v) })
}

// Flag 布尔原子单元
type Flag[B Backend[bool]] struct {
	Cell[bool, B]
}

// MakeFlag 构造一个初始值为v的布尔单元
func MakeFlag[B Backend[bool]](v bool) Flag[B] {
	return Flag[B]{Cell: Cell[bool, B]{v: v}}
}

func (c *Flag[B]) FetchAnd(v bool, o order.Ordering) bool {
	return c.op(o, func(old bool) bool { return old && v })
}

func (c *Flag[B]) FetchOr(v bool, o order.Ordering) bool {
	return c.op(o, func(old bool) bool { return old || v })
}

func (c *Flag[B]) FetchXor(v bool, o order.Ordering) bool {
	return c.op(o, func(old bool) bool { return old != v })
}

func (c *Flag[B]) FetchNand(v bool, o order.Ordering) bool {
	return c.op(o, func(old bool) bool { return !(old && v) })
}

// FetchMax false < true
func (c *Flag[B]) FetchMax(v bool, o order.Ordering) bool {
	return c.op(o, func(old bool) bool { return old || v })
}

func (c *Flag[B]) FetchMin(v bool, o order.Ordering) bool {
	return c.op(o, func(old bool) bool { return old && v })
}

// FetchNot 取反并返回旧值
func (c *Flag[B]) FetchNot(o order.Ordering) bool {
	return c.op(o, func(old bool) bool { return !old })
}

// Ptr 指针原子单元，指针值以 unsafe.Pointer 保存，保证 GC 可见
type Ptr[B Backend[unsafe.Pointer]] struct {
	Cell[unsafe.Pointer, B]
}

// MakePtr 构造一个初始值为v的指针单元
func MakePtr[B Backend[unsafe.Pointer]](v unsafe.Pointer) Ptr[B] {
	return Ptr[B]{Cell: Cell[unsafe.Pointer, B]{v: v}}
}

// FetchMax 按地址做无符号比较
func (c *Ptr[B]) FetchMax(v unsafe.Pointer, o order.Ordering) unsafe.Pointer {
	return c.op(o, func(old unsafe.Pointer) unsafe.Pointer {
		if uintptr(v) > uintptr(old) {
			return v
		}
		return old
	})
}

func (c *Ptr[B]) FetchMin(v unsafe.Pointer, o order.Ordering) unsafe.Pointer {
	return c.op(o, func(old unsafe.Pointer) unsafe.Pointer {
		if uintptr(v) < uintptr(old) {
			return v
		}
		return old
	})
}
