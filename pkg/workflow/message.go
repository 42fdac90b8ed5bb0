package workflow

import (
	"context"
	"fmt"
	"strings"
)

// commentPrefix marks template lines the close-message parser discards.
const commentPrefix = "#"

// composeTemplate renders the initial content of the close-message file: a
// leading blank line for the user's message, then a comment block
// describing what is about to be closed. The upstream section is omitted
// when the base ref has no tracking branch.
func (e *Engine) composeTemplate(ctx context.Context, run *MergeRun) string {
	pr := run.PR

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "# Closing pull request %s on %s\n", run.Ref.String(), pr.Base.Ref)
	fmt.Fprintf(&b, "#\n")
	fmt.Fprintf(&b, "# Head: %s\n", pr.Head.Label)

	upstream, err := e.repo.UpstreamRef(ctx, pr.Base.Ref)
	if err != nil || upstream == "" {
		fmt.Fprintf(&b, "#\n# %s has no upstream tracking branch.\n", pr.Base.Ref)
		return b.String()
	}

	fmt.Fprintf(&b, "# Upstream: %s\n", upstream)

	log, err := e.repo.UnpushedLog(ctx, upstream, pr.Base.Ref)
	if err == nil && log != "" {
		fmt.Fprintf(&b, "#\n# Commits on %s not yet pushed to %s:\n", pr.Base.Ref, upstream)
		for _, line := range strings.Split(log, "\n") {
			fmt.Fprintf(&b, "#   %s\n", line)
		}
	}

	return b.String()
}

// StripComments removes every line beginning with the comment marker and
// trims surrounding whitespace. An empty result means the user cancelled.
func StripComments(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, commentPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
