/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bruceshao/atomicpoly/critical"
	"github.com/bruceshao/atomicpoly/internal/engine"
	"github.com/bruceshao/atomicpoly/order"
)

var (
	goSize    = 64
	sizePerGo = 100000
)

// counter 被压测的计数器
type counter interface {
	add(v uint32) uint32
	load() uint32
}

type cell[B engine.Backend[uint32]] struct {
	c engine.Int[uint32, B]
}

func (c *cell[B]) add(v uint32) uint32 {
	return c.c.FetchAdd(v, order.AcqRel)
}

func (c *cell[B]) load() uint32 {
	return c.c.Load(order.Acquire)
}

// mutexCounter 对照组：直接使用 sync.Mutex 保护的计数
type mutexCounter struct {
	mu sync.Mutex
	v  uint32
}

func (m *mutexCounter) add(v uint32) uint32 {
	m.mu.Lock()
	old := m.v
	m.v += v
	m.mu.Unlock()
	return old
}

func (m *mutexCounter) load() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v
}

func main() {
	f, _ := os.OpenFile("cpu.pprof", os.O_CREATE|os.O_RDWR, 0644)
	defer f.Close()
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()
	arg := ""
	if len(os.Args) > 1 {
		arg = os.Args[1]
	}
	switch arg {
	case "":
		fmt.Println("start native, cas, full and mutex test")
		for _, p := range []string{"mutex", "spin"} {
			install(p)
			run("native", &cell[engine.Native[uint32]]{})
			run("cas/"+p, &cell[engine.Cas[uint32]]{})
			run("full/"+p, &cell[engine.Full[uint32]]{})
		}
		run("sync.Mutex", &mutexCounter{})
	case "native":
		run("native", &cell[engine.Native[uint32]]{})
	case "cas", "full":
		p := "mutex"
		if len(os.Args) > 2 {
			p = os.Args[2]
		}
		install(p)
		if arg == "cas" {
			run("cas/"+p, &cell[engine.Cas[uint32]]{})
		} else {
			run("full/"+p, &cell[engine.Full[uint32]]{})
		}
	case "mutex":
		run("sync.Mutex", &mutexCounter{})
	default:
		fmt.Println("usage: main [native|cas|full|mutex] [mutex|spin]")
		os.Exit(2)
	}
	fmt.Println("all test is over")
}

// install 切换临界区实现
func install(name string) {
	switch name {
	case "spin":
		critical.Install(&critical.Spin{})
	default:
		critical.Install(&critical.Mutex{})
	}
}

func run(name string, c counter) {
	ts := time.Now()
	var g errgroup.Group
	for i := 0; i < goSize; i++ {
		g.Go(func() error {
			for j := 0; j < sizePerGo; j++ {
				c.add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
	cost := time.Since(ts)
	want := uint32(goSize * sizePerGo)
	if got := c.load(); got != want {
		panic(fmt.Sprintf("%s: lost updates, want %d got %d", name, want, got))
	}
	fmt.Printf("=====%s[ %v, %.1f ns/op ]=====\n", name, cost, float64(cost.Nanoseconds())/float64(want))
}
