// Package vcscore implements the content-addressed object store, staging
// index, ref tracking, commit graph, diff engine, checkout, and three-way
// merge that make up the core of a minimal Git-style version control
// system. It has no knowledge of command-line arguments, interactive
// prompts, or network transports; those live in cmd/govc.
package vcscore
