/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package engine

import (
	"github.com/bruceshao/atomicpoly/critical"
	"github.com/bruceshao/atomicpoly/internal/hw"
	"github.com/bruceshao/atomicpoly/order"
	"github.com/bruceshao/atomicpoly/target"
)

// Backend 某一宽度在某一模拟级别下的能力集合
// 三种实现都是零大小类型，作为类型参数在编译期选定，不占用 Cell 的存储空间。
// 传入的内存序由调用方保证合法；Go 的硬件原子操作总是顺序一致的，因此更弱的内存序总能被满足。
type Backend[T hw.Scalar] interface {
	// Level 该实现对应的模拟级别
	Level() target.Level

	Load(p *T, o order.Ordering) T
	Store(p *T, v T, o order.Ordering)

	// Modify 通用的读-改-写原语：读取旧值，写入f(旧值)，返回旧值。整个过程是原子的。
	Modify(p *T, o order.Ordering, f func(T) T) T

	// CompareExchange 当前值等于current时写入new，返回之前的值与是否成功
	CompareExchange(p *T, current, new T, success, failure order.Ordering) (T, bool)

	// Update 条件更新：f返回false时不修改存储
	Update(p *T, set, fetch order.Ordering, f func(T) (T, bool)) (T, bool)
}

// Native 硬件提供该宽度的全部原子指令，所有操作直接转发
type Native[T hw.Scalar] struct{}

func (Native[T]) Level() target.Level { return target.Native }

func (Native[T]) Load(p *T, _ order.Ordering) T {
	return hw.Load(p)
}

func (Native[T]) Store(p *T, v T, _ order.Ordering) {
	hw.Store(p, v)
}

func (Native[T]) Modify(p *T, _ order.Ordering, f func(T) T) T {
	for {
		old := hw.Load(p)
		if hw.CompareAndSwap(p, old, f(old)) {
			return old
		}
	}
}

func (Native[T]) CompareExchange(p *T, current, new T, _, _ order.Ordering) (T, bool) {
	for {
		old := hw.Load(p)
		if old != current {
			return old, false
		}
		if hw.CompareAndSwap(p, current, new) {
			return old, true
		}
	}
}

// Update 没有临界区保护，与标准实现一样通过 CAS 重试，f可能被调用多次
func (Native[T]) Update(p *T, _, _ order.Ordering, f func(T) (T, bool)) (T, bool) {
	for {
		old := hw.Load(p)
		n, ok := f(old)
		if !ok {
			return old, false
		}
		if hw.CompareAndSwap(p, old, n) {
			return old, true
		}
	}
}

// Cas 硬件只提供该宽度的原子 load/store
// load/store 直接使用硬件；所有复合操作在一次临界区内完成 读取-计算-写入。
// 由于 Store 不进入临界区，只有当临界区期间其他执行者全部停止（单核 + 关中断）时才是正确的；
// 宿主机上的锁类提供者不满足这一点，并发的 Store 可能丢失。
type Cas[T hw.Scalar] struct{}

func (Cas[T]) Level() target.Level { return target.Cas }

func (Cas[T]) Load(p *T, _ order.Ordering) T {
	return hw.Load(p)
}

func (Cas[T]) Store(p *T, v T, _ order.Ordering) {
	hw.Store(p, v)
}

func (b Cas[T]) Modify(p *T, o order.Ordering, f func(T) T) T {
	lo, so := order.Split(o)
	return critical.Do(func(critical.Token) T {
		old := b.Load(p, lo)
		b.Store(p, f(old), so)
		return old
	})
}

// CompareExchange 临界区完全串行化了整个序列，不存在虚假失败
func (b Cas[T]) CompareExchange(p *T, current, new T, success, _ order.Ordering) (old T, ok bool) {
	lo, so := order.Split(success)
	critical.With(func(critical.Token) {
		old = b.Load(p, lo)
		if old == current {
			b.Store(p, new, so)
			ok = true
		}
	})
	return old, ok
}

// Update 只尝试一次：临界区内不可能有其他修改插入，因此f恰好被调用一次
func (b Cas[T]) Update(p *T, set, fetch order.Ordering, f func(T) (T, bool)) (old T, ok bool) {
	lo := order.Load(fetch)
	so := order.Store(set)
	critical.With(func(critical.Token) {
		old = b.Load(p, lo)
		var n T
		if n, ok = f(old); ok {
			b.Store(p, n, so)
		}
	})
	return old, ok
}

// Full 硬件不提供该宽度的任何原子指令
// 连普通的 load/store 也在临界区内对原始内存单元进行，永远不会触碰硬件原子指令。
// 内存序与 Cas 一样拆分为读、写两半交给原始单元；临界区本身充当完整屏障，任何内存序都被满足。
type Full[T hw.Scalar] struct{}

func (Full[T]) Level() target.Level { return target.Full }

func (Full[T]) Load(p *T, o order.Ordering) T {
	c := raw[T]{p: p}
	return critical.Do(func(cs critical.Token) T {
		return c.get(cs, o)
	})
}

func (Full[T]) Store(p *T, v T, o order.Ordering) {
	c := raw[T]{p: p}
	critical.With(func(cs critical.Token) {
		c.set(cs, v, o)
	})
}

func (Full[T]) Modify(p *T, o order.Ordering, f func(T) T) T {
	lo, so := order.Split(o)
	c := raw[T]{p: p}
	return critical.Do(func(cs critical.Token) T {
		old := c.get(cs, lo)
		c.set(cs, f(old), so)
		return old
	})
}

func (Full[T]) CompareExchange(p *T, current, new T, success, _ order.Ordering) (old T, ok bool) {
	lo, so := order.Split(success)
	c := raw[T]{p: p}
	critical.With(func(cs critical.Token) {
		old = c.get(cs, lo)
		if old == current {
			c.set(cs, new, so)
			ok = true
		}
	})
	return old, ok
}

func (Full[T]) Update(p *T, set, fetch order.Ordering, f func(T) (T, bool)) (old T, ok bool) {
	lo := order.Load(fetch)
	so := order.Store(set)
	c := raw[T]{p: p}
	critical.With(func(cs critical.Token) {
		old = c.get(cs, lo)
		var n T
		if n, ok = f(old); ok {
			c.set(cs, n, so)
		}
	})
	return old, ok
}
