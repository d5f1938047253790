/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package main

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/bruceshao/atomicpoly/target"
)

// binding 宽度类别在生成文件中的别名与元素类型
type binding struct {
	alias string
	elem  string
}

var bindings = [target.NumClasses]binding{
	target.I8:      {"i8Backend", "int8"},
	target.U8:      {"u8Backend", "uint8"},
	target.I16:     {"i16Backend", "int16"},
	target.U16:     {"u16Backend", "uint16"},
	target.I32:     {"i32Backend", "int32"},
	target.U32:     {"u32Backend", "uint32"},
	target.I64:     {"i64Backend", "int64"},
	target.U64:     {"u64Backend", "uint64"},
	target.Int:     {"intBackend", "int"},
	target.Uintptr: {"uintptrBackend", "uintptr"},
	target.Bool:    {"boolBackend", "bool"},
	target.Pointer: {"ptrBackend", "unsafe.Pointer"},
}

// backendName 级别对应的 engine 实现
func backendName(l target.Level) (string, error) {
	switch l {
	case target.Native:
		return "Native", nil
	case target.Cas:
		return "Cas", nil
	case target.Full:
		return "Full", nil
	}
	return "", fmt.Errorf("%w: %s", target.ErrLevel, l)
}

type alias struct {
	Name    string
	Backend string
	Elem    string
}

type genData struct {
	Package     string
	Target      string
	Rule        string
	Passthrough bool
	Custom      bool
	Aliases     []alias
}

var genTmpl = template.Must(template.New("levels").Parse(`/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

// Code generated by polyfillgen; DO NOT EDIT.

package {{.Package}}

import (
	"unsafe"

	"github.com/bruceshao/atomicpoly/internal/engine"
)

const (
	generatedFor  = {{printf "%q" .Target}}
	generatedRule = {{printf "%q" .Rule}}
	passthrough   = {{.Passthrough}}
	customTable   = {{.Custom}}
)

type (
{{- range .Aliases}}
	{{.Name}} = engine.{{.Backend}}[{{.Elem}}]
{{- end}}
)
`))

// render 生成 levels_gen.go 的内容，custom 表示分类使用了外部规则表
func render(pkg string, c target.Classification, custom bool) ([]byte, error) {
	d := genData{
		Package:     pkg,
		Target:      string(c.Target),
		Rule:        c.Rule,
		Passthrough: c.Passthrough,
		Custom:      custom,
	}
	for _, w := range target.Classes() {
		name, err := backendName(c.Level(w))
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", w, err)
		}
		b := bindings[w]
		d.Aliases = append(d.Aliases, alias{Name: b.alias, Backend: name, Elem: b.elem})
	}
	var buf bytes.Buffer
	if err := genTmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}
