package driver

import "strings"

// ValidationError aggregates validation failures for one file.
type ValidationError struct {
	Subject string
	Issues  []string
}

func (e *ValidationError) Error() string {
	subject := e.Subject
	if subject == "" {
		subject = "configuration"
	}
	if len(e.Issues) == 0 {
		return subject + ": invalid configuration"
	}
	var b strings.Builder
	b.WriteString(subject)
	b.WriteString(" validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func (e *ValidationError) add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}
