package main

import (
	"fmt"

	"github.com/rybkr/gograph/internal/vcscore"
)

func runLatestCommit(repo *vcscore.Repository, args []string) int {
	var hash vcscore.Hash
	var err error

	if len(args) >= 2 && args[0] == "branch_name" {
		hash, err = repo.Refs.LatestCommitOfBranch(args[1])
	} else {
		hash, err = repo.Refs.LatestCommitOfCurrentBranch()
	}
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	fmt.Println(hash)
	return 0
}
