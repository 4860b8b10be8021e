package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rybkr/gograph/internal/vcscore"
)

func runCatFile(repo *vcscore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Println("fatal: cat-file requires an object hash or 'index'")
		return 0
	}

	target := args[0]
	pretty := false
	for _, a := range args[1:] {
		if a == "-p" {
			pretty = true
		}
	}

	if target == "index" {
		data, err := os.ReadFile(filepath.Join(repo.GitDir, "index"))
		if err != nil {
			fmt.Printf("fatal: %v\n", err)
			return 0
		}
		fmt.Print(string(data))
		return 0
	}

	payload, kind, err := repo.CatFile(target)
	if err != nil {
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	if pretty && kind == vcscore.KindBlob {
		content, err := vcscore.DecodeBlob(payload)
		if err != nil {
			fmt.Printf("fatal: %v\n", err)
			return 0
		}
		fmt.Print(string(content))
		return 0
	}
	fmt.Print(string(payload))
	return 0
}
