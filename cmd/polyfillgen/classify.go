/*
 * Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 *
 */

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bruceshao/atomicpoly/target"
)

var classifyRules string

var classifyCmd = &cobra.Command{
	Use:   "classify <target-id>...",
	Short: "Print the per-class emulation levels of each target",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClassifier(resolveRules(classifyRules), logger)
		if err != nil {
			return err
		}
		ids := make([]target.ID, len(args))
		for i, a := range args {
			ids[i] = target.ID(a)
		}
		return printTable(cmd.OutOrStdout(), c, ids)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyRules, "rules", "", "YAML rule table replacing the built-in one")
}

func printTable(w io.Writer, c *target.Classifier, ids []target.ID) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	head := []string{"TARGET", "RULE"}
	for _, cl := range target.Classes() {
		head = append(head, strings.ToUpper(cl.String()))
	}
	fmt.Fprintln(tw, strings.Join(head, "\t"))
	for _, id := range ids {
		cls := c.Classify(id)
		rule := cls.Rule
		if cls.Passthrough {
			rule = "(passthrough)"
		}
		row := []string{string(id), rule}
		for _, cl := range target.Classes() {
			row = append(row, cls.Level(cl).String())
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
