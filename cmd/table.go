// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const maxCellWidth = 48

func cell(s string) string {
	if utf8.RuneCountInString(s) <= maxCellWidth {
		return s
	}

	r := []rune(s)

	return string(r[:maxCellWidth-1]) + "…"
}

// printTable draws rows in a rounded box.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	for _, row := range rows {
		for i := range row {
			row[i] = cell(row[i])
			widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
		}
	}

	line := func(left, mid, right string) {
		parts := make([]string, len(widths))
		for i, n := range widths {
			parts[i] = strings.Repeat("─", n+2)
		}

		fmt.Fprintln(w, left+strings.Join(parts, mid)+right)
	}

	printRow := func(values []string) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = " " + v + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v)) + " "
		}

		fmt.Fprintln(w, "│"+strings.Join(parts, "│")+"│")
	}

	line("╭", "┬", "╮")
	printRow(headers)
	line("├", "┼", "┤")

	for _, row := range rows {
		printRow(row)
	}

	line("╰", "┴", "╯")
}
