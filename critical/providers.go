/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package critical

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Mutex 基于 sync.Mutex 的提供者，宿主机上的默认实现
// 前后使用缓存行填充，避免与相邻的热点数据产生伪共享
type Mutex struct {
	_  cpu.CacheLinePad
	mu sync.Mutex
	_  cpu.CacheLinePad
}

func (m *Mutex) Acquire() State {
	m.mu.Lock()
	return 0
}

func (m *Mutex) Release(State) {
	m.mu.Unlock()
}

// Spin 自旋锁提供者
// 临界区都非常短，自旋等待时通过runtime.Gosched()让出 cpu 资源
type Spin struct {
	_ cpu.CacheLinePad
	v atomic.Uint32
	_ cpu.CacheLinePad
}

func (s *Spin) Acquire() State {
	for !s.v.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
	return 0
}

func (s *Spin) Release(State) {
	s.v.Store(0)
}

// Interrupts 将平台提供的关中断 / 恢复中断函数适配为 Provider
// Disable 返回关闭前的中断屏蔽状态，Restore 用该状态恢复
type Interrupts struct {
	Disable func() State
	Restore func(State)
}

func (i Interrupts) Acquire() State {
	return i.Disable()
}

func (i Interrupts) Release(s State) {
	i.Restore(s)
}
