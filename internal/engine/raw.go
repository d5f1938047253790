/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package engine

import (
	"github.com/bruceshao/atomicpoly/critical"
	"github.com/bruceshao/atomicpoly/order"
)

// raw 独占的原始内存单元
// 仅有的访问方式都要求调用方出示 critical.Token，保证只在临界区内读写。
// 内存序参数只用于与硬件路径保持相同的调用形式，临界区已经是完整屏障。
type raw[T any] struct {
	p *T
}

func (r raw[T]) get(_ critical.Token, _ order.Ordering) T {
	return *r.p
}

func (r raw[T]) set(_ critical.Token, v T, _ order.Ordering) {
	*r.p = v
}
