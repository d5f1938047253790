/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package atomicpoly

import (
	"unsafe"

	"github.com/bruceshao/atomicpoly/internal/engine"
	"github.com/bruceshao/atomicpoly/target"
)

// Pointer 原子 *T，零值为 nil
type Pointer[T any] struct {
	_ noCopy
	// 禁止 Pointer[A] 与 Pointer[B] 之间的类型转换
	_ [0]*T
	c engine.Ptr[ptrBackend]
}

func NewPointer[T any](v *T) Pointer[T] {
	return Pointer[T]{c: engine.MakePtr[ptrBackend](unsafe.Pointer(v))}
}

func (p *Pointer[T]) Level() target.Level {
	return p.c.Level()
}

func (p *Pointer[T]) Load(o Ordering) *T {
	return (*T)(p.c.Load(o))
}

func (p *Pointer[T]) Store(v *T, o Ordering) {
	p.c.Store(unsafe.Pointer(v), o)
}

func (p *Pointer[T]) Swap(v *T, o Ordering) *T {
	return (*T)(p.c.Swap(unsafe.Pointer(v), o))
}

// CompareExchange 当前指针与current相等（同一地址）时写入new
func (p *Pointer[T]) CompareExchange(current, new *T, success, failure Ordering) (*T, bool) {
	old, ok := p.c.CompareExchange(unsafe.Pointer(current), unsafe.Pointer(new), success, failure)
	return (*T)(old), ok
}

// CompareExchangeWeak 在模拟实现中不会虚假失败，但调用方仍应在循环中使用
func (p *Pointer[T]) CompareExchangeWeak(current, new *T, success, failure Ordering) (*T, bool) {
	old, ok := p.c.CompareExchangeWeak(unsafe.Pointer(current), unsafe.Pointer(new), success, failure)
	return (*T)(old), ok
}

// FetchMax 按地址无符号比较
func (p *Pointer[T]) FetchMax(v *T, o Ordering) *T {
	return (*T)(p.c.FetchMax(unsafe.Pointer(v), o))
}

func (p *Pointer[T]) FetchMin(v *T, o Ordering) *T {
	return (*T)(p.c.FetchMin(unsafe.Pointer(v), o))
}

func (p *Pointer[T]) FetchUpdate(set, fetch Ordering, f func(*T) (*T, bool)) (*T, bool) {
	old, ok := p.c.FetchUpdate(set, fetch, func(v unsafe.Pointer) (unsafe.Pointer, bool) {
		n, ok := f((*T)(v))
		return unsafe.Pointer(n), ok
	})
	return (*T)(old), ok
}

// GetMut 非原子视图，只能在确定没有并发访问时使用
func (p *Pointer[T]) GetMut() **T {
	return (**T)(unsafe.Pointer(p.c.GetMut()))
}
