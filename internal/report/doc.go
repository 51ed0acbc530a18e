// Package report renders a completed run report in several formats:
// plain text for the terminal, JSON for tool integration, and Markdown
// for documentation and sharing.
package report
