package main

import (
	"fmt"

	"github.com/rybkr/gograph/internal/vcscore"
)

func runBranch(repo *vcscore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Println("fatal: branch requires a name")
		return 0
	}
	if err := repo.Branch(args[0]); err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	fmt.Printf("Created branch %s\n", args[0])
	return 0
}
