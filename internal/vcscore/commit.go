package vcscore

import "fmt"

// WriteCommit persists a commit object referencing treeHash, with the
// current branch's latest commit as first parent (if any) and secondParent
// (if non-empty) as the merge parent. It advances the current branch to
// the new commit.
func WriteCommit(store *ObjectStore, refs *Refs, treeHash Hash, message string, secondParent Hash) (Hash, error) {
	firstParent, err := refs.LatestCommitOfCurrentBranch()
	if err != nil {
		return "", err
	}
	var parents []Hash
	if !firstParent.Empty() {
		parents = append(parents, firstParent)
	}
	if !secondParent.Empty() {
		parents = append(parents, secondParent)
	}
	payload := EncodeCommit(treeHash, parents, message)
	hash, err := store.Put(KindCommit, payload)
	if err != nil {
		return "", fmt.Errorf("write commit: %w", err)
	}
	if err := refs.SetLatestOfCurrentBranch(hash); err != nil {
		return "", fmt.Errorf("write commit: %w", err)
	}
	return hash, nil
}

// AncestorNode is one node of a commit's ancestry, preserving branching:
// Parents holds the node's first-parent subtree before its second-parent
// subtree, mirroring a commit's own parent order.
type AncestorNode struct {
	Hash    Hash
	Parents []*AncestorNode
}

// Ancestors walks commit's parent chain depth-first, short-circuiting on
// any hash already present in visited. visited must be supplied by the
// caller and is mutated in place; the walk keeps no state of its own
// between top-level calls.
func Ancestors(store *ObjectStore, commit Hash, visited map[Hash]bool) *AncestorNode {
	if commit.Empty() || visited[commit] {
		return nil
	}
	visited[commit] = true
	node := &AncestorNode{Hash: commit}
	payload, err := store.Get(commit)
	if err != nil {
		return node
	}
	_, parents, _, err := ParseCommit(payload)
	if err != nil {
		return node
	}
	for _, p := range parents {
		if child := Ancestors(store, p, visited); child != nil {
			node.Parents = append(node.Parents, child)
		}
	}
	return node
}

// Flatten de-duplicates an AncestorNode tree into the ordered list of
// hashes a traversal would visit: the node itself, then its first-parent
// subtree, then its second-parent subtree. Order matters: the common
// ancestor in a three-way merge is the first element of this list (for
// the target commit) that also appears in the current branch's ancestor
// set.
func Flatten(node *AncestorNode) []Hash {
	if node == nil {
		return nil
	}
	result := []Hash{node.Hash}
	for _, p := range node.Parents {
		result = append(result, Flatten(p)...)
	}
	return result
}

// AncestorSet is a convenience wrapper returning Flatten(Ancestors(...))
// as a set, used by guard checks that only need membership.
func AncestorSet(store *ObjectStore, commit Hash) map[Hash]bool {
	visited := map[Hash]bool{}
	node := Ancestors(store, commit, visited)
	set := make(map[Hash]bool)
	for _, h := range Flatten(node) {
		set[h] = true
	}
	return set
}
