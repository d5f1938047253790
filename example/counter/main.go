/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/bruceshao/atomicpoly"
	"github.com/bruceshao/atomicpoly/critical"
)

var (
	ticks  = 100000
	events atomicpoly.Uint32
	// 最近一次中断的通道号
	channel atomicpoly.Uint8
	overrun atomicpoly.Bool
)

// cpu 模拟单核处理器的全局中断开关
// 关中断期间中断处理函数不会执行，mask 记录关闭前的状态
type cpu struct {
	mu   sync.Mutex
	mask critical.State
}

func (c *cpu) disable() critical.State {
	c.mu.Lock()
	prev := c.mask
	c.mask = 1
	return prev
}

func (c *cpu) restore(s critical.State) {
	c.mask = s
	c.mu.Unlock()
}

func main() {
	core := &cpu{}
	// 在使用任何原子类型之前安装关中断临界区
	critical.Install(critical.Interrupts{Disable: core.disable, Restore: core.restore})

	fmt.Println("emulation level of uint32:", events.Level())

	done := make(chan struct{})
	// 中断处理函数
	go func() {
		defer close(done)
		for i := 0; i < ticks; i++ {
			events.FetchAdd(1, atomicpoly.Relaxed)
			channel.Store(uint8(i%8), atomicpoly.Release)
			if events.Load(atomicpoly.Relaxed) > 1000 {
				overrun.Store(true, atomicpoly.Relaxed)
			}
		}
	}()

	// 主循环：取走已累计的事件数
	total, overruns := uint32(0), 0
	for {
		select {
		case <-done:
			total += events.Swap(0, atomicpoly.AcqRel)
			fmt.Println("=====events[", total, "] last channel[", channel.Load(atomicpoly.Acquire),
				"] overruns[", overruns, "]=====")
			return
		default:
			total += events.Swap(0, atomicpoly.AcqRel)
			if _, ok := overrun.CompareExchange(true, false, atomicpoly.AcqRel, atomicpoly.Relaxed); ok {
				overruns++
			}
			time.Sleep(time.Microsecond)
		}
	}
}
