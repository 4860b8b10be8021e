package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rybkr/gograph/internal/termcolor"
	"github.com/rybkr/gograph/internal/vcscore"
)

func runCheckout(repo *vcscore.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) == 0 {
		fmt.Println("fatal: checkout requires a branch name")
		return 0
	}
	branch := args[0]

	spinner, _ := pterm.DefaultSpinner.Start("switching to " + branch)
	err := repo.Checkout(branch)
	if err != nil {
		spinner.Fail(err.Error())
		fmt.Printf("fatal: %v\n", err)
		return 0
	}
	spinner.Success("switched to " + branch)
	fmt.Println(cw.Green("Switched to branch " + branch))
	return 0
}
