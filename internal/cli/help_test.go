package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rybkr/gograph/internal/termcolor"
)

func TestFormatAppHelp(t *testing.T) {
	app := NewApp("myapp", "2.0.0")
	var buf bytes.Buffer
	app.Stderr = &buf

	app.Register(&Command{Name: "log", Summary: "Show commit log", Run: func([]string) int { return 0 }})
	app.Register(&Command{Name: "diff", Summary: "Show diff between commits", Run: func([]string) int { return 0 }})

	cw := termcolor.NewWriter(os.Stdout, termcolor.ColorNever)
	FormatAppHelp(app, cw)

	out := buf.String()

	checks := []string{
		"myapp version 2.0.0",
		"Usage:",
		"Other:",
		"log",
		"Show commit log",
		"diff",
		"Show diff between commits",
		"Global flags:",
		"--color",
		"--no-color",
		"--version",
	}
	for _, s := range checks {
		if !strings.Contains(out, s) {
			t.Errorf("FormatAppHelp output missing %q", s)
		}
	}
}

func TestFormatAppHelpGroupsCommandsBySection(t *testing.T) {
	app := NewApp("govc", "dev")
	var buf bytes.Buffer
	app.Stderr = &buf

	app.Register(&Command{Name: "init", Summary: "Create an empty repository", Group: "repository", Run: func([]string) int { return 0 }})
	app.Register(&Command{Name: "diff", Summary: "Show differences", Group: "inspection", Run: func([]string) int { return 0 }})
	app.Register(&Command{Name: "merge", Summary: "Merge a branch", Group: "history", Run: func([]string) int { return 0 }})

	cw := termcolor.NewWriter(os.Stdout, termcolor.ColorNever)
	FormatAppHelp(app, cw)

	out := buf.String()
	repoIdx := strings.Index(out, "Repository:")
	inspectIdx := strings.Index(out, "Inspect:")
	historyIdx := strings.Index(out, "History:")
	if repoIdx == -1 || inspectIdx == -1 || historyIdx == -1 {
		t.Fatalf("expected all three section headers present, got:\n%s", out)
	}
	if !(repoIdx < inspectIdx && inspectIdx < historyIdx) {
		t.Fatalf("expected Repository, then Inspect, then History, got:\n%s", out)
	}
}

func TestFormatCommandHelp(t *testing.T) {
	app := NewApp("myapp", "2.0.0")
	var buf bytes.Buffer
	app.Stderr = &buf

	cmd := &Command{
		Name:     "log",
		Summary:  "Show commit log",
		Usage:    "myapp log [--oneline] [-n <count>]",
		Examples: []string{"myapp log", "myapp log --oneline -n5"},
		Run:      func([]string) int { return 0 },
	}

	cw := termcolor.NewWriter(os.Stdout, termcolor.ColorNever)
	FormatCommandHelp(app, cmd, cw)

	out := buf.String()

	checks := []string{
		"log",
		"Show commit log",
		"Usage:",
		"myapp log [--oneline] [-n <count>]",
		"Examples:",
		"myapp log --oneline -n5",
	}
	for _, s := range checks {
		if !strings.Contains(out, s) {
			t.Errorf("FormatCommandHelp output missing %q", s)
		}
	}
}
