package main

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rybkr/gograph/internal/termcolor"
	"github.com/rybkr/gograph/internal/vcscore"
)

func runMerge(repo *vcscore.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) < 2 || args[0] != "branch_name" {
		fmt.Println("fatal: usage: govc merge branch_name <name>")
		return 0
	}
	target := args[1]

	spinner, _ := pterm.DefaultSpinner.Start("merging " + target)
	outcome, err := repo.Merge(target)
	if err != nil && !errors.Is(err, vcscore.ErrConflict) {
		spinner.Fail(err.Error())
		fmt.Printf("fatal: %v\n", err)
		return 0
	}

	if errors.Is(err, vcscore.ErrConflict) {
		spinner.Fail("merge conflicts")
		fmt.Println(cw.DiffStatus("conflict: the following paths could not be merged automatically:", "Conflict"))
		for _, path := range outcome.Conflicts {
			fmt.Println(cw.DiffStatus("  "+path, "Conflict"))
		}
		return 0
	}

	spinner.Success(outcome.Classification)
	switch outcome.Classification {
	case "no-op":
		fmt.Println("Already up to date.")
	case "fast-forward":
		fmt.Println(cw.Green("Fast-forwarded to " + string(outcome.Commit)))
	default:
		fmt.Println(cw.Green("Merge commit " + string(outcome.Commit)))
	}
	return 0
}
