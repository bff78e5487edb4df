package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderMarkdown writes a Markdown brief: a header, an overview table aligned
// by display width, then one section per article.
func RenderMarkdown(w io.Writer, page Page) error {
	stats := ComputeStats(page.Articles)
	cards := BuildCards(page.Articles)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# 📰 %s\n\n", page.title())
	fmt.Fprintf(&sb, "生成时间：%s\n\n", page.generatedAt().Format(timestampLayout))
	fmt.Fprintf(&sb, "**%d** 篇文章 · **%d** 个来源 · **%d** 个关键词\n", stats.TotalArticles, stats.Sources, stats.TotalKeywords)

	if len(cards) > 0 {
		rows := [][]string{{"#", "来源", "标题", "发布时间"}}
		for _, c := range cards {
			rows = append(rows, []string{fmt.Sprint(c.Index), c.Source, c.Title, c.Date})
		}
		sb.WriteString("\n")
		for _, line := range formatTable(rows) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	for _, c := range cards {
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", c.Index, c.Title)
		fmt.Fprintf(&sb, "> %s\n\n", c.Summary)
		if len(c.Keywords) > 0 {
			tags := make([]string, len(c.Keywords))
			for i, k := range c.Keywords {
				tags[i] = "`" + k + "`"
			}
			fmt.Fprintf(&sb, "关键词：%s\n\n", strings.Join(tags, " "))
		}
		fmt.Fprintf(&sb, "%s · %s · [%s](%s)\n", c.Source, c.Date, c.ButtonText(), c.Link)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	return nil
}

// formatTable lays out rows as a Markdown table. The first row is the header.
func formatTable(rows [][]string) []string {
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	cells := make([][]string, len(rows))
	colWidths := make([]int, colCount)
	for r, row := range rows {
		cells[r] = make([]string, colCount)
		for i := 0; i < colCount; i++ {
			if i < len(row) {
				cells[r][i] = escapeCell(row[i])
			}
			if width := runewidth.StringWidth(cells[r][i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var result []string
	for r, row := range cells {
		result = append(result, tableLine(row, colWidths))
		if r == 0 {
			sep := make([]string, colCount)
			for i := range sep {
				sep[i] = strings.Repeat("-", colWidths[i])
			}
			result = append(result, tableLine(sep, colWidths))
		}
	}
	return result
}

func tableLine(row []string, colWidths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for j, content := range row {
		sb.WriteString(" ")
		sb.WriteString(content)
		// Pad with spaces based on display width
		if padding := colWidths[j] - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}
		sb.WriteString(" |")
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
