package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// 상태 메시지는 stderr, 결과 데이터는 stdout (또는 --out 파일)
// ═══════════════════════════════════════════════════════════

// statusOut receives progress and status lines
var statusOut io.Writer = os.Stderr

// PrintHeader prints a titled banner
func PrintHeader(title string) {
	fmt.Fprintln(statusOut)
	PrintDoubleSeparator()
	fmt.Fprintf(statusOut, "  %s\n", title)
	PrintSeparator()
}

// PrintProgress prints a progress step with counter
// Example: [Screener] Enriched holdings [3/20]
func PrintProgress(tag string, message string, current int, total int) {
	fmt.Fprintf(statusOut, "[%s] %s [%d/%d]\n", tag, message, current, total)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Fprintln(statusOut, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Fprintln(statusOut, "═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintln(statusOut)
	fmt.Fprintf(statusOut, "⚠️  %s\n", message)
	fmt.Fprintln(statusOut)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(statusOut, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(statusOut, "❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Fprintf(statusOut, "ℹ️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Fprintf(statusOut, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(statusOut, "   • %s\n", item)
	}
}

// PrintTable writes columns and rows with widths fitted to the content
func PrintTable(w io.Writer, columns []string, rows [][]string) {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	PrintTableHeader(w, columns, widths)
	for _, row := range rows {
		PrintTableRow(w, row, widths)
	}
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	var b strings.Builder
	for i, val := range values {
		b.WriteString(val)
		if i < len(values)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(val)+2))
		}
	}
	fmt.Fprintln(w, b.String())
}
