package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rybkr/gograph/internal/termcolor"
	"github.com/rybkr/gograph/internal/vcscore"
)

func runCommit(repo *vcscore.Repository, args []string, cw *termcolor.Writer) int {
	var message string
	hasMessage := false
	all := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-m":
			if i+1 < len(args) {
				message = args[i+1]
				hasMessage = true
				i++
			}
		case "-a":
			all = true
		}
	}

	if all {
		workdirDiffs, err := repo.DiffIndexWorkdir()
		if err != nil {
			fmt.Printf("fatal: %v\n", err)
			return 0
		}
		if len(workdirDiffs) == 0 {
			fmt.Println("no file(s) to commit")
			return 0
		}
		if err := repo.Add("."); err != nil {
			fmt.Printf("fatal: %v\n", err)
			return 0
		}
	}

	diffs, err := repo.DiffHeadIndex()
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	if len(diffs) == 0 {
		fmt.Println("no file(s) to commit")
		return 0
	}

	if !hasMessage {
		confirmed, err := pterm.DefaultInteractiveConfirm.Show("Nothing passed via -m; commit staged changes anyway?")
		if err != nil || !confirmed {
			fmt.Println("commit aborted")
			return 0
		}
		message = "no commit message provided"
	}

	hash, err := repo.Commit(message)
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	branch, ok, err := repo.Refs.CurrentBranch()
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	if !ok {
		branch = "detached HEAD"
	}
	fmt.Println(cw.Green(fmt.Sprintf("[%s %s] %s", branch, hash[:7], message)))
	return 0
}
