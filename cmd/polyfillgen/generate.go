/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"

	"github.com/bruceshao/atomicpoly/target"
)

const (
	targetEnv = "TARGET"
	rulesEnv  = "ATOMICPOLY_RULES"
)

// ErrNoTarget 既没有 --target 也没有 TARGET 环境变量
var ErrNoTarget = errors.New("no target id: set " + targetEnv + " or pass --target")

type generateOptions struct {
	target string
	rules  string
	out    string
	pkg    string
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the level bindings for the build target",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(genOpts, logger)
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.target, "target", "", "target id, overrides $"+targetEnv)
	f.StringVar(&genOpts.rules, "rules", "", "YAML rule table replacing the built-in one, overrides $"+rulesEnv)
	f.StringVar(&genOpts.out, "out", "levels_gen.go", "output file, - for stdout")
	f.StringVar(&genOpts.pkg, "package", "atomicpoly", "package name of the generated file")
}

// resolveTarget 命令行参数优先，其次是环境变量
func resolveTarget(flag string) (target.ID, error) {
	if flag != "" {
		return target.ID(flag), nil
	}
	if env.Has(targetEnv) {
		return target.ID(env.Str(targetEnv)), nil
	}
	return "", ErrNoTarget
}

func resolveRules(flag string) string {
	if flag != "" {
		return flag
	}
	return env.Str(rulesEnv)
}

// newClassifier 指定了规则文件时使用其中的规则表，否则使用内置规则表
func newClassifier(rules string, l *zap.Logger) (*target.Classifier, error) {
	opts := []target.Option{target.WithLogger(l)}
	if rules != "" {
		f, err := os.Open(rules)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		t, err := target.LoadTable(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rules, err)
		}
		opts = append(opts, target.WithTable(t))
	}
	return target.New(opts...)
}

func runGenerate(o generateOptions, l *zap.Logger) error {
	id, err := resolveTarget(o.target)
	if err != nil {
		return err
	}
	rules := resolveRules(o.rules)
	c, err := newClassifier(rules, l)
	if err != nil {
		return err
	}
	cls := c.Classify(id)
	src, err := render(o.pkg, cls, rules != "")
	if err != nil {
		return err
	}
	if o.out == "-" {
		_, err = os.Stdout.Write(src)
		return err
	}
	if err = os.WriteFile(o.out, src, 0644); err != nil {
		return err
	}
	l.Info("level bindings generated",
		zap.String("target", string(id)),
		zap.String("rule", cls.Rule),
		zap.Bool("passthrough", cls.Passthrough),
		zap.String("out", o.out))
	return nil
}
