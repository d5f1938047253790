/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

// Package critical 临界区提供者
//
// 模拟原子操作所依赖的唯一外部原语："独占执行"。在单核 MCU 上它通常是关中断 / 恢复中断，
// 在宿主机上则由一把全局锁代替。
//
// 前置条件：只有当提供者的互斥范围覆盖所有可能访问同一内存单元的执行者时，基于临界区的模拟才是正确的。
// 单核 + 中断的场景满足该条件；如果提供者只关闭当前核的中断，而目标是真正的多核芯片，则不满足，
// 此时需要一个跨核的串行化原语，这不在本包的范围内。
//
// 宿主机上的 Mutex / Spin 只串行化进入临界区的代码。Full 级别的所有访问都经过临界区，因此是正确的；
// Cas 级别的 Load / Store 直接使用硬件指令，不进入临界区，一个并发的 Store 可能落在
// 临界区内的读取与写入之间而被覆盖。Cas 级别要求执行临界区期间其他执行者完全停止，
// 只有单核 + 关中断满足这一点。
package critical

import (
	"sync/atomic"
)

// State 进入临界区前保存的状态（例如中断屏蔽位），退出时原样交还给提供者
type State uint32

// Provider 临界区提供者接口
// Acquire 关闭中断（或获取互斥），返回之前的状态；Release 恢复该状态。
// 模拟引擎自身从不嵌套调用，因此实现不需要可重入。
// 用户传给 FetchUpdate 的函数在临界区内执行，不能访问任何 Cas / Full 级别的原子类型：
// Mutex / Spin 不可重入，这样做会死锁。关中断类的提供者天然可以嵌套。
type Provider interface {
	Acquire() State
	Release(State)
}

// Token 持有临界区的凭证，只由 With 交给临界区内的代码
// 需要独占访问的原始内存单元以 Token 作为参数，以此表明调用发生在临界区之内。
type Token struct {
	_ struct{}
}

type holder struct {
	p Provider
}

var current atomic.Pointer[holder]

func init() {
	current.Store(&holder{p: &Mutex{}})
}

// Install 替换全局的临界区提供者，返回之前的提供者
// 必须在任何模拟原子类型被并发使用之前调用，运行期间切换提供者会破坏互斥。
func Install(p Provider) Provider {
	if p == nil {
		panic("critical: nil provider")
	}
	return current.Swap(&holder{p: p}).p
}

// Current 当前生效的提供者
func Current() Provider {
	return current.Load().p
}

// With 在临界区内执行body
// 无论body正常返回还是panic，都会恢复进入前的状态。
func With(body func(Token)) {
	p := current.Load().p
	s := p.Acquire()
	defer p.Release(s)
	body(Token{})
}

// Do 与 With 相同，但返回body的结果
func Do[R any](body func(Token) R) R {
	p := current.Load().p
	s := p.Acquire()
	defer p.Release(s)
	return body(Token{})
}
