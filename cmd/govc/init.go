package main

import (
	"fmt"

	"github.com/rybkr/gograph/internal/vcscore"
)

func runInit(args []string) int {
	bare := false
	for _, a := range args {
		if a == "--bare" {
			bare = true
		}
	}
	repo := vcscore.Open(repoRoot(), bare)
	if err := repo.Init(); err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	fmt.Printf("Initialized empty repository in %s\n", repo.GitDir)
	return 0
}
