/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package order

import "fmt"

// Ordering 原子操作的内存序
// Go 的 sync/atomic 本身只提供顺序一致（SeqCst）语义，因此硬件路径上更弱的内存序总是被加强执行，
// 仅在把复合操作拆成 load + store 时才需要按照 Split 的结果分别指定两半的内存序。
type Ordering uint8

const (
	Relaxed Ordering = iota
	Acquire
	Release
	AcqRel
	SeqCst
)

const invalidFormat = "invalid %s ordering: %s"

var names = [...]string{
	Relaxed: "Relaxed",
	Acquire: "Acquire",
	Release: "Release",
	AcqRel:  "AcqRel",
	SeqCst:  "SeqCst",
}

func (o Ordering) String() string {
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("Ordering(%d)", uint8(o))
}

// Split 内存序降级映射
// 当复合操作在临界区内被拆成一次读取和一次写入时，返回读取一半和写入一半各自使用的内存序：
// 读取一半至少具备原内存序中"读"的强度，写入一半至少具备"写"的强度。
func Split(o Ordering) (load, store Ordering) {
	switch o {
	case Relaxed:
		return Relaxed, Relaxed
	case Acquire:
		return Acquire, Relaxed
	case Release:
		return Relaxed, Release
	case AcqRel:
		return Acquire, Release
	case SeqCst:
		return SeqCst, SeqCst
	}
	panic(fmt.Sprintf(invalidFormat, "requested", o))
}

// Load 返回 Split 中读取一半的内存序
func Load(o Ordering) Ordering {
	l, _ := Split(o)
	return l
}

// Store 返回 Split 中写入一半的内存序
func Store(o Ordering) Ordering {
	_, s := Split(o)
	return s
}

// ValidLoad load 不允许使用 Release 与 AcqRel
func ValidLoad(o Ordering) bool {
	return o == Relaxed || o == Acquire || o == SeqCst
}

// ValidStore store 不允许使用 Acquire 与 AcqRel
func ValidStore(o Ordering) bool {
	return o == Relaxed || o == Release || o == SeqCst
}

// ValidFailure compare-exchange 失败分支只做读取，因此约束与 load 相同
func ValidFailure(o Ordering) bool {
	return ValidLoad(o)
}

// MustLoad 校验 load 内存序，非法时 panic，与标准原子类型的约定一致
func MustLoad(o Ordering) {
	if !ValidLoad(o) {
		panic(fmt.Sprintf(invalidFormat, "load", o))
	}
}

// MustStore 校验 store 内存序
func MustStore(o Ordering) {
	if !ValidStore(o) {
		panic(fmt.Sprintf(invalidFormat, "store", o))
	}
}

// MustFailure 校验 compare-exchange 失败分支的内存序
func MustFailure(o Ordering) {
	if !ValidFailure(o) {
		panic(fmt.Sprintf(invalidFormat, "failure", o))
	}
}
