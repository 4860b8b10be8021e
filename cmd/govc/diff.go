package main

import (
	"fmt"
	"strings"

	"github.com/rybkr/gograph/internal/termcolor"
	"github.com/rybkr/gograph/internal/vcscore"
)

func runDiff(repo *vcscore.Repository, args []string, cw *termcolor.Writer) int {
	var lines []string
	var err error

	switch {
	case len(args) == 0:
		lines, err = repo.DiffIndexWorkdir()
	case args[0] == "--cached":
		lines, err = repo.DiffHeadIndex()
	case args[0] == "HEAD":
		lines, err = repo.DiffHeadWorkdir()
	case args[0] == "-b" && len(args) > 1:
		lines, err = repo.DiffAgainstBranch(args[1])
	case args[0] == "-c" && len(args) > 1:
		lines, err = repo.DiffAgainstCommit(vcscore.Hash(args[1]))
	default:
		fmt.Println("fatal: usage: govc diff [--cached|HEAD|-b <branch>|-c <commit>]")
		return 0
	}

	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	for _, line := range lines {
		_, status, _ := strings.Cut(line, ": ")
		fmt.Println(cw.DiffStatus(line, status))
	}
	return 0
}
