package ui

import (
	"fmt"
	"strings"

	"gwprobe/pkg/types"
)

// PrintReport renders a diagnose report
func PrintReport(report *types.Report) {
	fmt.Println()
	fmt.Println(HeaderStyle.Render("API Gateway Diagnosis"))
	fmt.Println(MutedStyle.Render("─────────────────────────────────"))
	fmt.Printf("  API:       %s\n", IDStyle.Render(report.API.APIID))
	fmt.Printf("  Stage:     %s %s\n", NameStyle.Render(report.Stage.StageName), checkMark(report.Stage.Exists))
	if report.Resource != nil {
		fmt.Printf("  Resource:  %s %s\n", NameStyle.Render(report.Resource.Path), checkMark(report.Resource.Exists))
	}
	if report.Method != nil {
		fmt.Printf("  Method:    %s %s\n", NameStyle.Render(report.Method.Method), checkMark(report.Method.Exists))
	}
	fmt.Printf("  Log group: %s\n", MutedStyle.Render(report.LogGroup))
	fmt.Printf("  Window:    %s → %s\n",
		MutedStyle.Render(report.Start.Format("2006-01-02 15:04:05")),
		MutedStyle.Render(report.End.Format("2006-01-02 15:04:05")))
	fmt.Println()

	PrintFinding(report.Finding)
}

// PrintFinding renders the analysis outcome on its own, used by both
// the diagnose report and the logs command
func PrintFinding(finding types.Finding) {
	if finding.Found {
		fmt.Println(FailStyle.Render("✗ Known error pattern matched") + MutedStyle.Render(" ("+finding.PatternName+")"))
		fmt.Println()
		fmt.Printf("  Log: %s\n", finding.LogLine)
		fmt.Println()
		fmt.Println("  Recommended articles:")
		for _, article := range finding.Articles {
			fmt.Printf("  - %s\n", LinkStyle.Render(article))
		}
	} else {
		fmt.Println(OKStyle.Render("✓ No known error pattern found"))
		fmt.Printf("  %s\n", MutedStyle.Render(firstLine(finding.Message)))
	}

	if finding.AccessLogNote != "" {
		fmt.Println()
		for _, line := range strings.Split(finding.AccessLogNote, "\n") {
			fmt.Println(WarnStyle.Render("  " + line))
		}
	}
	fmt.Println()
}

// PrintPatternTable renders the known error pattern table
func PrintPatternTable(patterns []PatternRow) {
	headers := []string{"Name", "Articles"}
	widths := []int{34, 76}

	var sb strings.Builder

	// Top border
	sb.WriteString(BorderStyle.Render(TopLeft))
	for i, w := range widths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(widths)-1 {
			sb.WriteString(BorderStyle.Render(TopT))
		}
	}
	sb.WriteString(BorderStyle.Render(TopRight))
	sb.WriteString("\n")

	// Header row
	sb.WriteString(BorderStyle.Render(Vertical))
	for i, h := range headers {
		cell := " " + padRight(h, widths[i]) + " "
		sb.WriteString(HeaderStyle.Render(cell))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	// Header separator
	sb.WriteString(BorderStyle.Render(LeftT))
	for i, w := range widths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(widths)-1 {
			sb.WriteString(BorderStyle.Render(Cross))
		}
	}
	sb.WriteString(BorderStyle.Render(RightT))
	sb.WriteString("\n")

	// Data rows, one line per article
	for _, p := range patterns {
		for j, article := range p.Articles {
			name := ""
			if j == 0 {
				name = p.Name
			}

			sb.WriteString(BorderStyle.Render(Vertical))
			sb.WriteString(NameStyle.Render(" " + padRight(name, widths[0]) + " "))
			sb.WriteString(BorderStyle.Render(Vertical))
			sb.WriteString(LinkStyle.Render(" " + padRight(article, widths[1]) + " "))
			sb.WriteString(BorderStyle.Render(Vertical))
			sb.WriteString("\n")
		}
	}

	// Bottom border
	sb.WriteString(BorderStyle.Render(BottomLeft))
	for i, w := range widths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(widths)-1 {
			sb.WriteString(BorderStyle.Render(BottomT))
		}
	}
	sb.WriteString(BorderStyle.Render(BottomRight))
	sb.WriteString("\n")

	fmt.Print(sb.String())
	fmt.Printf("  %d known error patterns\n", len(patterns))
}

// PatternRow is one row of the pattern table
type PatternRow struct {
	Name     string
	Articles []string
}

func checkMark(ok bool) string {
	if ok {
		return OKStyle.Render("✓")
	}
	return FailStyle.Render("✗")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
