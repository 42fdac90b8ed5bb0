package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	// Check for ParseError
	var parseErr *ParseError
	if As(err, &parseErr) {
		return formatParseError(parseErr)
	}

	// Check for CredentialError
	var credErr *CredentialError
	if As(err, &credErr) {
		return formatCredentialError(credErr)
	}

	// Check for APIError
	var apiErr *APIError
	if As(err, &apiErr) {
		return formatAPIError(apiErr)
	}

	// Check for GitError
	var gitErr *GitError
	if As(err, &gitErr) {
		return formatGitError(gitErr)
	}

	// Check for WorkflowError
	var wfErr *WorkflowError
	if As(err, &wfErr) {
		return formatWorkflowError(wfErr)
	}

	// Default: return the error message as-is
	return err.Error()
}

// formatParseError formats a ParseError with actionable guidance.
func formatParseError(err *ParseError) string {
	var b strings.Builder

	if err.Input != "" {
		fmt.Fprintf(&b, "Could not parse %q: %s\n", err.Input, err.Message)
	} else {
		fmt.Fprintf(&b, "Parse error: %s\n", err.Message)
	}

	b.WriteString("\nExpected a pull request URL of the form:\n")
	b.WriteString("  https://github.com/<owner>/<repo>/pull/<number>\n")

	return b.String()
}

// formatCredentialError formats a CredentialError with actionable guidance.
func formatCredentialError(err *CredentialError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Credential error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Credential error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Run 'land auth login' to authenticate with GitHub\n")
	b.WriteString("  • Or configure a git credential helper: git config credential.helper\n")

	return b.String()
}

// formatAPIError formats an APIError with status-specific guidance.
func formatAPIError(err *APIError) string {
	var b strings.Builder

	if err.StatusCode > 0 {
		fmt.Fprintf(&b, "GitHub API error during %s (HTTP %d): %s\n", err.Operation, err.StatusCode, err.Message)
	} else {
		fmt.Fprintf(&b, "GitHub API error during %s: %s\n", err.Operation, err.Message)
	}

	switch err.StatusCode {
	case 401:
		b.WriteString("\nYour credentials were rejected. Run 'land auth login' or check your token.\n")
	case 403:
		b.WriteString("\nAccess denied. Check that your token has the 'repo' scope, or that you\nhave not hit a rate limit.\n")
	case 404:
		b.WriteString("\nThe pull request was not found. Check the URL and that your credentials\ncan see the repository.\n")
	default:
		if err.Retryable {
			b.WriteString("\nThis looks like a transient GitHub problem. Try again in a moment.\n")
		}
	}

	return b.String()
}

// formatGitError formats a GitError. Git's own output is the diagnostic;
// nothing useful can be added beyond pointing at it.
func formatGitError(err *GitError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "git %s failed.\n", err.Command)
	if err.Output != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(err.Output, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

// formatWorkflowError formats a WorkflowError, delegating to the cause's
// formatter when one of the typed errors is wrapped inside.
func formatWorkflowError(err *WorkflowError) string {
	if err.Cause != nil {
		inner := FormatUserError(err.Cause)
		if inner != err.Cause.Error() {
			return fmt.Sprintf("Merge workflow failed at step '%s'.\n\n%s", err.Step, inner)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Merge workflow failed at step '%s': %s\n", err.Step, err.Message)

	if err.Step == "integrate" {
		b.WriteString("\nThe temporary merge branch may have been left behind for manual cleanup.\n")
		b.WriteString("Inspect the repository state with 'git status' and 'git branch'.\n")
	}

	return b.String()
}
