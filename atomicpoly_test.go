/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package atomicpoly

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/bruceshao/atomicpoly/critical"
	"github.com/bruceshao/atomicpoly/target"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sectionCounter 统计进入临界区的次数
type sectionCounter struct {
	mu sync.Mutex
	n  int
}

func (s *sectionCounter) Acquire() critical.State {
	s.mu.Lock()
	s.n++
	return 0
}

func (s *sectionCounter) Release(critical.State) {
	s.mu.Unlock()
}

func (s *sectionCounter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func TestZeroValues(t *testing.T) {
	var (
		i8  Int8
		u64 Uint64
		b   Bool
		p   Pointer[int]
	)
	assert.Equal(t, int8(0), i8.Load(SeqCst))
	assert.Equal(t, uint64(0), u64.Load(SeqCst))
	assert.False(t, b.Load(SeqCst))
	assert.Nil(t, p.Load(SeqCst))
}

func TestConstructors(t *testing.T) {
	i8 := NewInt8(-3)
	u8 := NewUint8(3)
	i16 := NewInt16(-300)
	u16 := NewUint16(300)
	i32 := NewInt32(-70000)
	u32 := NewUint32(70000)
	i64 := NewInt64(-1 << 40)
	u64 := NewUint64(1 << 40)
	n := NewInt(-9)
	up := NewUintptr(9)
	b := NewBool(true)
	x := 5
	p := NewPointer(&x)

	assert.Equal(t, int8(-3), i8.Load(Relaxed))
	assert.Equal(t, uint8(3), u8.Load(Relaxed))
	assert.Equal(t, int16(-300), i16.Load(Relaxed))
	assert.Equal(t, uint16(300), u16.Load(Relaxed))
	assert.Equal(t, int32(-70000), i32.Load(Relaxed))
	assert.Equal(t, uint32(70000), u32.Load(Relaxed))
	assert.Equal(t, int64(-1<<40), i64.Load(Relaxed))
	assert.Equal(t, uint64(1<<40), u64.Load(Relaxed))
	assert.Equal(t, -9, n.Load(Relaxed))
	assert.Equal(t, uintptr(9), up.Load(Relaxed))
	assert.True(t, b.Load(Relaxed))
	assert.Same(t, &x, p.Load(Relaxed))
}

// 大小与对齐和普通标量一致，64 位类型总是 8 字节对齐
func TestRepresentation(t *testing.T) {
	assert.Equal(t, uintptr(1), unsafe.Sizeof(Int8{}))
	assert.Equal(t, uintptr(1), unsafe.Sizeof(Uint8{}))
	assert.Equal(t, uintptr(1), unsafe.Sizeof(Bool{}))
	assert.Equal(t, uintptr(2), unsafe.Sizeof(Int16{}))
	assert.Equal(t, uintptr(2), unsafe.Alignof(Uint16{}))
	assert.Equal(t, uintptr(4), unsafe.Sizeof(Uint32{}))
	assert.Equal(t, uintptr(4), unsafe.Alignof(Int32{}))
	assert.Equal(t, uintptr(8), unsafe.Sizeof(Int64{}))
	assert.Equal(t, uintptr(8), unsafe.Alignof(Int64{}))
	assert.Equal(t, uintptr(8), unsafe.Alignof(Uint64{}))
	assert.Equal(t, unsafe.Sizeof(int(0)), unsafe.Sizeof(Int{}))
	assert.Equal(t, unsafe.Sizeof(uintptr(0)), unsafe.Sizeof(Uintptr{}))
	assert.Equal(t, unsafe.Sizeof(uintptr(0)), unsafe.Sizeof(Pointer[int]{}))

	// 放进需要匹配寄存器布局的结构体中，偏移不变
	type regs struct {
		status Uint8
		_      [3]byte
		ctrl   Uint32
		count  Uint64
	}
	var r regs
	assert.Equal(t, uintptr(4), unsafe.Offsetof(r.ctrl))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(r.count))
}

func TestReadAfterWrite(t *testing.T) {
	var u16 Uint16
	u16.Store(65535, Release)
	assert.Equal(t, uint16(65535), u16.Load(Acquire))

	var i64 Int64
	i64.Store(-1, SeqCst)
	assert.Equal(t, int64(-1), i64.Load(SeqCst))

	var b Bool
	b.Store(true, Relaxed)
	assert.True(t, b.Load(Relaxed))
}

func TestWraparound(t *testing.T) {
	u8 := NewUint8(250)
	assert.Equal(t, uint8(250), u8.FetchAdd(10, SeqCst))
	assert.Equal(t, uint8(4), u8.Load(SeqCst))

	i32 := NewInt32(-2147483648)
	assert.Equal(t, int32(-2147483648), i32.FetchSub(1, SeqCst))
	assert.Equal(t, int32(2147483647), i32.Load(SeqCst))
}

func TestCompareExchange(t *testing.T) {
	u32 := NewUint32(1)
	old, ok := u32.CompareExchange(2, 3, AcqRel, Acquire)
	assert.False(t, ok)
	assert.Equal(t, uint32(1), old)
	assert.Equal(t, uint32(1), u32.Load(SeqCst))

	old, ok = u32.CompareExchange(1, 3, AcqRel, Acquire)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), old)
	assert.Equal(t, uint32(3), u32.Load(SeqCst))

	b := NewBool(false)
	prev, ok := b.CompareExchangeWeak(false, true, SeqCst, Relaxed)
	assert.True(t, ok)
	assert.False(t, prev)
}

func TestFetchOps(t *testing.T) {
	i16 := NewInt16(-4)
	assert.Equal(t, int16(-4), i16.FetchMax(3, SeqCst))
	assert.Equal(t, int16(3), i16.FetchMin(-10, SeqCst))
	assert.Equal(t, int16(-10), i16.Load(SeqCst))

	u64 := NewUint64(0xff00)
	assert.Equal(t, uint64(0xff00), u64.FetchAnd(0x0ff0, SeqCst))
	assert.Equal(t, uint64(0x0f00), u64.FetchOr(0x000f, SeqCst))
	assert.Equal(t, uint64(0x0f0f), u64.FetchXor(0x0f0f, SeqCst))
	assert.Equal(t, uint64(0), u64.FetchNand(0, SeqCst))
	assert.Equal(t, ^uint64(0), u64.Swap(1, SeqCst))

	b := NewBool(true)
	assert.True(t, b.FetchNot(SeqCst))
	assert.False(t, b.FetchOr(true, SeqCst))
	assert.True(t, b.Load(SeqCst))
}

func TestFetchUpdateDeclines(t *testing.T) {
	n := NewInt(10)
	for i := 0; i < 10; i++ {
		old, ok := n.FetchUpdate(SeqCst, SeqCst, func(int) (int, bool) { return 0, false })
		assert.False(t, ok)
		assert.Equal(t, 10, old)
	}
	assert.Equal(t, 10, n.Load(SeqCst))

	old, ok := n.FetchUpdate(SeqCst, SeqCst, func(v int) (int, bool) { return v + 5, true })
	assert.True(t, ok)
	assert.Equal(t, 10, old)
	assert.Equal(t, 15, n.Load(SeqCst))
}

func TestGetMut(t *testing.T) {
	var u Uintptr
	*u.GetMut() = 42
	assert.Equal(t, uintptr(42), u.Load(SeqCst))

	x, y := 1, 2
	p := NewPointer(&x)
	*p.GetMut() = &y
	assert.Same(t, &y, p.Load(SeqCst))
}

func TestPointer(t *testing.T) {
	xs := new([2]int)
	lo, hi := &xs[0], &xs[1]
	var p Pointer[int]

	old, ok := p.CompareExchange(nil, lo, SeqCst, SeqCst)
	assert.True(t, ok)
	assert.Nil(t, old)

	old, ok = p.CompareExchangeWeak(hi, nil, SeqCst, SeqCst)
	assert.False(t, ok)
	assert.Same(t, lo, old)

	assert.Same(t, lo, p.FetchMax(hi, SeqCst))
	assert.Same(t, hi, p.FetchMin(lo, SeqCst))
	assert.Same(t, lo, p.Swap(hi, SeqCst))

	old, ok = p.FetchUpdate(SeqCst, Acquire, func(cur *int) (*int, bool) {
		if cur == hi {
			return lo, true
		}
		return nil, false
	})
	assert.True(t, ok)
	assert.Same(t, hi, old)
	assert.Same(t, lo, p.Load(SeqCst))
	p.Store(nil, Release)
	assert.Nil(t, p.Load(Acquire))
	assert.Equal(t, LevelOf(target.Pointer), p.Level())
}

func TestInvalidOrderings(t *testing.T) {
	var u Uint32
	assert.Panics(t, func() { u.Load(Release) })
	assert.Panics(t, func() { u.Store(1, Acquire) })
	assert.Panics(t, func() { u.CompareExchange(0, 1, SeqCst, AcqRel) })
}

// 生成的绑定与分类器对同一目标的结果一致
func TestClassificationMatchesGenerated(t *testing.T) {
	got := Classification()
	if got.Target == "" {
		assert.True(t, got.Passthrough)
		for _, w := range target.Classes() {
			assert.Equal(t, target.Native, got.Level(w), w.String())
		}
		return
	}
	if customTable {
		t.Skip("generated from an external rule table")
	}
	want := target.Classify(got.Target)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generated levels drift from classifier (-want +got):\n%s", diff)
	}
}

func TestLevelOfMatchesTypes(t *testing.T) {
	var (
		u8  Uint8
		u32 Uint32
		i64 Int64
		b   Bool
	)
	assert.Equal(t, LevelOf(target.U8), u8.Level())
	assert.Equal(t, LevelOf(target.U32), u32.Level())
	assert.Equal(t, LevelOf(target.I64), i64.Level())
	assert.Equal(t, LevelOf(target.Bool), b.Level())
}

// 临界区只在当前级别需要时进入
func TestCriticalSections(t *testing.T) {
	sc := &sectionCounter{}
	prev := critical.Install(sc)
	defer critical.Install(prev)

	expect := func(w target.WidthClass, op string) int {
		switch LevelOf(w) {
		case target.Full:
			return 1
		case target.Cas:
			if op == "rmw" {
				return 1
			}
		}
		return 0
	}

	var u32 Uint32
	base := sc.count()
	u32.Store(1, Relaxed)
	u32.Load(Relaxed)
	assert.Equal(t, 2*expect(target.U32, "ls"), sc.count()-base)

	base = sc.count()
	u32.FetchAdd(1, SeqCst)
	assert.Equal(t, expect(target.U32, "rmw"), sc.count()-base)

	var u64 Uint64
	base = sc.count()
	u64.Load(Relaxed)
	assert.Equal(t, expect(target.U64, "ls"), sc.count()-base)
}

func TestConcurrentCounters(t *testing.T) {
	const workers, loops = 8, 1000
	var (
		u8  Uint8
		u64 Uint64
		b   Bool
		g   errgroup.Group
	)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := 0; j < loops; j++ {
				u8.FetchAdd(1, AcqRel)
				u64.FetchAdd(1, AcqRel)
				b.FetchXor(true, AcqRel)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, uint8(workers*loops%256), u8.Load(SeqCst))
	assert.Equal(t, uint64(workers*loops), u64.Load(SeqCst))
	// 偶数次取反回到初始值
	assert.False(t, b.Load(SeqCst))
}
