/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

// Package atomicpoly 原子类型族
//
// 在缺少部分或全部原子指令的目标上，用临界区模拟标准的原子操作约定，调用方无需区分架构。
// 每个宽度类别使用哪种实现（Native / Cas / Full）由构建期生成的 levels_gen.go 决定：
//
//	TARGET=thumbv6m-none-eabi go generate
//
// 所有类型的零值即可直接使用，大小和对齐与对应的普通标量一致，首次使用后不可复制。
//
// Cas / Full 实现只有在临界区提供者（见 critical 包）的互斥范围覆盖所有访问者时才是正确的：
// 单核 + 中断满足该条件，只关闭本核中断的真多核目标不满足。
// 宿主机上的 Mutex / Spin 提供者只能保证 Full 级别的正确性：Cas 级别的 Load / Store 不进入临界区，
// 与临界区内的读-改-写并发时写入可能丢失。
package atomicpoly

//go:generate go run ./cmd/polyfillgen generate --out levels_gen.go

import (
	"github.com/bruceshao/atomicpoly/order"
	"github.com/bruceshao/atomicpoly/target"
)

// Ordering 内存序
type Ordering = order.Ordering

const (
	Relaxed = order.Relaxed
	Acquire = order.Acquire
	Release = order.Release
	AcqRel  = order.AcqRel
	SeqCst  = order.SeqCst
)

// noCopy 配合 go vet 的 copylocks 检查，禁止首次使用后复制
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Classification 当前构建所使用的分类结果
func Classification() target.Classification {
	c := target.Classification{
		Target:      target.ID(generatedFor),
		Rule:        generatedRule,
		Passthrough: passthrough,
	}
	c.Levels[target.I8] = i8Backend{}.Level()
	c.Levels[target.U8] = u8Backend{}.Level()
	c.Levels[target.I16] = i16Backend{}.Level()
	c.Levels[target.U16] = u16Backend{}.Level()
	c.Levels[target.I32] = i32Backend{}.Level()
	c.Levels[target.U32] = u32Backend{}.Level()
	c.Levels[target.I64] = i64Backend{}.Level()
	c.Levels[target.U64] = u64Backend{}.Level()
	c.Levels[target.Int] = intBackend{}.Level()
	c.Levels[target.Uintptr] = uintptrBackend{}.Level()
	c.Levels[target.Bool] = boolBackend{}.Level()
	c.Levels[target.Pointer] = ptrBackend{}.Level()
	return c
}

// LevelOf 宽度类别w在当前构建中的模拟级别
func LevelOf(w target.WidthClass) target.Level {
	return Classification().Level(w)
}
