package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"mfeller.dev/land/pkg/github"
)

func viewTestPR() *github.PullRequest {
	return &github.PullRequest{
		Number:    42,
		Title:     "Add feature x",
		State:     "open",
		Mergeable: true,
		HTMLURL:   "https://github.com/acme/widgets/pull/42",
		Base:      github.Branch{SHA: "basesha", Ref: "main", Label: "acme:main"},
		Head:      github.Branch{SHA: "headsha", Ref: "feature-x", Label: "alice:feature-x", Login: "alice"},
	}
}

var viewTestRef = github.PullRequestRef{Owner: "acme", Repo: "widgets", Number: 42}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	fnErr := fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	return buf.String(), fnErr
}

func TestRenderPRText(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return renderPR(viewTestRef, viewTestPR(), "text")
	})
	if err != nil {
		t.Fatalf("renderPR(text) error: %v", err)
	}

	for _, want := range []string{
		"acme/widgets#42: Add feature x",
		"State:     open",
		"alice:feature-x -> acme:main",
		"Ready to land",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("text output missing %q:\n%s", want, output)
		}
	}
}

func TestRenderPRTextNotMergeable(t *testing.T) {
	pr := viewTestPR()
	pr.Mergeable = false

	output, err := captureStdout(t, func() error {
		return renderPR(viewTestRef, pr, "text")
	})
	if err != nil {
		t.Fatalf("renderPR(text) error: %v", err)
	}

	if !strings.Contains(output, "Not mergeable") {
		t.Errorf("text output should flag an unmergeable PR:\n%s", output)
	}
	if strings.Contains(output, "Ready to land") {
		t.Errorf("unmergeable PR must not claim readiness:\n%s", output)
	}
}

func TestRenderPRJSON(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return renderPR(viewTestRef, viewTestPR(), "json")
	})
	if err != nil {
		t.Fatalf("renderPR(json) error: %v", err)
	}

	var decoded github.PullRequest
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v\n%s", err, output)
	}
	if decoded.Number != 42 || decoded.Head.Ref != "feature-x" {
		t.Errorf("json round trip lost data: %+v", decoded)
	}
}

func TestRenderPRYAML(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return renderPR(viewTestRef, viewTestPR(), "yaml")
	})
	if err != nil {
		t.Fatalf("renderPR(yaml) error: %v", err)
	}

	for _, want := range []string{"number: 42", "ref: feature-x"} {
		if !strings.Contains(output, want) {
			t.Errorf("yaml output missing %q:\n%s", want, output)
		}
	}
}

func TestRenderPRUnknownFormat(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return renderPR(viewTestRef, viewTestPR(), "xml")
	})
	if err == nil {
		t.Fatal("renderPR should reject unknown formats")
	}
	if output != "" {
		t.Errorf("unknown format must not print anything, got %q", output)
	}
}

func TestViewCommandShape(t *testing.T) {
	t.Parallel()

	if viewCmd.Use != "view <pull-request-url>" {
		t.Errorf("view Use = %q, want %q", viewCmd.Use, "view <pull-request-url>")
	}

	flag := viewCmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("view command should have --output flag")
	}
	if flag.Shorthand != "o" {
		t.Errorf("--output shorthand = %q, want %q", flag.Shorthand, "o")
	}
	if flag.DefValue != "text" {
		t.Errorf("--output default = %q, want %q", flag.DefValue, "text")
	}
}
