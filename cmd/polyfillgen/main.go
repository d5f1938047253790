/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

// polyfillgen 构建期工具：对目标分类并生成各宽度类别的实现绑定
//
//	TARGET=thumbv6m-none-eabi polyfillgen generate --out levels_gen.go
//	polyfillgen classify avr-unknown-gnu-atmega328 riscv32imc-unknown-none-elf
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	level   = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "polyfillgen",
	Short:         "Classify embedded targets and bind atomic emulation levels",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			level.SetLevel(zap.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(generateCmd, classifyCmd)
}

// newLogger 输出到 stderr，避免与生成内容混在一起
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func main() {
	l, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "polyfillgen:", err)
		os.Exit(1)
	}
	logger = l
	if err = rootCmd.Execute(); err != nil {
		logger.Error("polyfillgen failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
