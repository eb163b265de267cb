package formatter

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/nequiv/internal/netlist"
	tt "github.com/gnoswap-labs/nequiv/internal/types"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// SourceCode holds the lines of a bench file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the file at path split into lines.
func ReadSourceCode(path string) (*SourceCode, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &SourceCode{Lines: strings.Split(string(content), "\n")}, nil
}

// issueFormatter is the interface that wraps the IssueTemplate method.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter returns the formatter of rule. Rules that are not
// fatal to a check are rendered as warnings.
func getIssueFormatter(rule string) issueFormatter {
	switch rule {
	case netlist.RuleUnusedInput, netlist.RuleUnrecognized, netlist.RuleUndriven, netlist.RuleRedefined:
		return &warningIssueFormatter{}
	default:
		return &generalIssueFormatter{}
	}
}

// GenerateFormattedIssue formats a slice of issues of one file into a
// human-readable string.
func GenerateFormattedIssue(issues []tt.Issue, snippet *SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		formatter := getIssueFormatter(issue.Rule)
		builder.WriteString(buildIssue(issue, snippet, formatter))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Rule            string
	Filename        string
	Padding         string
	Line            int
	MaxLineNumWidth int
	Message         string
	Signal          string
	SnippetLines    []string
}

func buildIssue(issue tt.Issue, snippet *SourceCode, formatter issueFormatter) string {
	maxLineNumWidth := calculateMaxLineNumWidth(issue.Line)

	var lines []string
	if snippet != nil {
		lines = snippet.Lines
	}

	data := IssueData{
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		Line:            issue.Line,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Message:         issue.Message,
		Signal:          issue.Signal,
		SnippetLines:    lines,
	}

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             codeSnippet,
		"underlineAndMessage": underlineAndMessage,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(severity, rule string, maxLineNumWidth int, filename string, line int) string {
	var endString string
	if severity == "warning" {
		endString = warningStyle.Sprint("warning: ")
	} else {
		endString = errorStyle.Sprint("error: ")
	}
	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	if line > 0 {
		endString += fileStyle.Sprintf("%s:%d", filename, line)
	} else {
		endString += fileStyle.Sprint(filename)
	}
	return endString
}

func codeSnippet(snippetLines []string, line int, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	if !isValidLine(line, snippetLines) {
		return endString
	}
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("%s | ", lineNum) + strings.TrimSpace(snippetLines[line-1]) + "\n"
	return endString
}

// underlineAndMessage underlines the whole line, or just the signal when
// it occurs in the line.
func underlineAndMessage(message, signal, padding string, line int, snippetLines []string) string {
	endString := lineStyle.Sprintf("%s| ", padding)

	if !isValidLine(line, snippetLines) {
		endString += messageStyle.Sprintf("%s\n", message)
		return endString
	}

	text := strings.TrimSpace(snippetLines[line-1])
	start, length := 0, len(text)
	if signal != "" {
		if i := strings.Index(text, signal); i >= 0 {
			start, length = i, len(signal)
		}
	}
	if length == 0 {
		length = 1
	}

	endString += strings.Repeat(" ", start)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", length))
	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func isValidLine(line int, snippetLines []string) bool {
	return line > 0 && line <= len(snippetLines)
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}
