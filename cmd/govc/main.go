package main

import (
	"os"

	"github.com/rybkr/gograph/internal/cli"
	"github.com/rybkr/gograph/internal/termcolor"
	"github.com/rybkr/gograph/internal/vcscore"
)

var version = "dev"

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])
	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)
	if gf.colorMode == termcolor.ColorAuto && len(args) > 0 {
		cw.SetEnabled(termcolor.ShouldColorizeCommand(args[0], cw.Enabled()))
	}

	app := cli.NewApp("govc", version)
	app.Stderr = os.Stderr

	repo := vcscore.Open(repoRoot(), false)

	app.Register(&cli.Command{
		Name:      "init",
		Summary:   "Create an empty repository",
		Usage:     "govc init [--bare]",
		Group:     "repository",
		NeedsRepo: false,
		Run:       func(args []string) int { return runInit(args) },
	})
	app.Register(&cli.Command{
		Name:      "add",
		Summary:   "Stage files for the next commit",
		Usage:     "govc add <path>",
		Examples:  []string{"govc add .", "govc add sub/file.txt"},
		Group:     "repository",
		NeedsRepo: true,
		Run:       func(args []string) int { return runAdd(repo, args) },
	})
	app.Register(&cli.Command{
		Name:      "cat-file",
		Summary:   "Print a decompressed object",
		Usage:     "govc cat-file <hash> [-p]",
		Examples:  []string{"govc cat-file index", "govc cat-file abc123 -p"},
		Group:     "inspection",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCatFile(repo, args) },
	})
	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Record staged changes as a new commit",
		Usage:     "govc commit [-m <msg>] [-a]",
		Examples:  []string{"govc commit -m 'message'", "govc commit -a"},
		Group:     "history",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCommit(repo, args, cw) },
	})
	app.Register(&cli.Command{
		Name:      "diff",
		Summary:   "Show differences between workdir, index, and HEAD",
		Usage:     "govc diff [--cached|HEAD|-b <branch>|-c <commit>]",
		Group:     "inspection",
		NeedsRepo: true,
		Run:       func(args []string) int { return runDiff(repo, args, cw) },
	})
	app.Register(&cli.Command{
		Name:      "branch",
		Summary:   "Create a branch at the current commit",
		Usage:     "govc branch <name>",
		Group:     "history",
		NeedsRepo: true,
		Run:       func(args []string) int { return runBranch(repo, args) },
	})
	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Switch to a branch",
		Usage:     "govc checkout <name>",
		Group:     "history",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCheckout(repo, args, cw) },
	})
	app.Register(&cli.Command{
		Name:      "current_branch",
		Summary:   "Print the resolved current ref",
		Usage:     "govc current_branch",
		Group:     "inspection",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCurrentBranch(repo, args) },
	})
	app.Register(&cli.Command{
		Name:      "latest_commit",
		Summary:   "Print a branch's latest commit hash",
		Usage:     "govc latest_commit [branch_name <name>]",
		Group:     "inspection",
		NeedsRepo: true,
		Run:       func(args []string) int { return runLatestCommit(repo, args) },
	})
	app.Register(&cli.Command{
		Name:      "merge",
		Summary:   "Three-way merge a branch into the current branch",
		Usage:     "govc merge branch_name <name>",
		Group:     "history",
		NeedsRepo: true,
		Run:       func(args []string) int { return runMerge(repo, args, cw) },
	})

	os.Exit(app.Run(args, cw))
}
