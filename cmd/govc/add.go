package main

import (
	"fmt"

	"github.com/rybkr/gograph/internal/vcscore"
)

func runAdd(repo *vcscore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Println("fatal: nothing specified, nothing added")
		return 0
	}
	for _, path := range args {
		if err := repo.Add(path); err != nil {
			fmt.Printf("fatal: %v\n", err)
			return 0
		}
	}
	return 0
}
