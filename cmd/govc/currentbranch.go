package main

import (
	"fmt"

	"github.com/rybkr/gograph/internal/vcscore"
)

func runCurrentBranch(repo *vcscore.Repository, args []string) int {
	branch, ok, err := repo.Refs.CurrentBranch()
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	if !ok {
		commit, err := repo.Refs.HeadCommit()
		if err != nil {
			fmt.Printf("fatal: %v\n", err)
			return 0
		}
		fmt.Printf("HEAD detached at %s\n", commit)
		return 0
	}
	fmt.Println(branch)
	return 0
}
