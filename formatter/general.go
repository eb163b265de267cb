package formatter

type generalIssueFormatter struct{}

func (f *generalIssueFormatter) IssueTemplate() string {
	return `{{header "error" .Rule .MaxLineNumWidth .Filename .Line}}
{{snippet .SnippetLines .Line .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Signal .Padding .Line .SnippetLines}}
`
}

type warningIssueFormatter struct{}

func (f *warningIssueFormatter) IssueTemplate() string {
	return `{{header "warning" .Rule .MaxLineNumWidth .Filename .Line}}
{{snippet .SnippetLines .Line .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Signal .Padding .Line .SnippetLines}}
`
}
