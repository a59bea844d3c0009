package report

import (
	"path"
	"sort"
	"strings"
)

const (
	separator = "/"
)

type CoverageTree interface {
	// FindOrCreate returns the leaf node that represents the source file if found,
	// otherwise, it creates all the nodes along the path to the leaf, and finally returns it.
	FindOrCreate(file string) *TreeNode
	Find(dir string) *TreeNode
	CollectCoverageData()
	All() []*AllInformation
}

// TreeNode represents the node of multi branches tree.
// Each node contains the basic coverage information of a directory or a file,
// includes covered lines count, total lines count and violation lines count.
// Each internal node has one or many sub nodes, which are stored in a map, and can be retrieved by node name.
// A leaf node has no sub node.
type TreeNode struct {
	Name                string               // name
	TotalLines          int64                // total lines account for coverage
	TotalCoveredLines   int64                // covered lines account for coverage
	TotalViolationLines int64                // violation lines that not covered for coverage
	TotalIssues         int64                // lint issues
	Nodes               map[string]*TreeNode // sub nodes that store in map
	isLeaf              bool                 // whether the node is leaf or internal node
}

func NewCoverageTree(projectName string) CoverageTree {
	return &coverageTree{
		Root: NewTreeNode(projectName, false),
	}
}

// NewCoverageTreeFromStatistics aggregates the file profiles by directory.
func NewCoverageTreeFromStatistics(statistics *Statistics) CoverageTree {
	coverageTree := NewCoverageTree(statistics.ProjectName)

	for _, profile := range statistics.CoverageProfile {
		node := coverageTree.FindOrCreate(profile.FileName)
		node.TotalLines += int64(profile.TotalLines)
		node.TotalCoveredLines += int64(profile.CoveredLines)
		node.TotalViolationLines += int64(len(profile.TotalViolationLines))
		node.TotalIssues += int64(len(profile.Issues))
	}

	coverageTree.CollectCoverageData()
	return coverageTree
}

func NewTreeNode(name string, isLeaf bool) *TreeNode {
	return &TreeNode{
		Name:   name,
		Nodes:  make(map[string]*TreeNode),
		isLeaf: isLeaf,
	}
}

// IsLeaf reports whether the node is a file.
func (n *TreeNode) IsLeaf() bool {
	return n.isLeaf
}

type coverageTree struct {
	Root *TreeNode
}

var _ CoverageTree = (*coverageTree)(nil)

type AllInformation struct {
	Path                string
	IsFile              bool
	TotalLines          int64
	TotalCoveredLines   int64
	TotalViolationLines int64
	TotalIssues         int64
}

// All returns every node of the tree in depth first order, sub nodes sorted by name.
// Paths are relative to the project, the root has an empty path.
func (p *coverageTree) All() []*AllInformation {
	var result []*AllInformation

	var dfs func(node *TreeNode, dir string)
	dfs = func(node *TreeNode, dir string) {
		result = append(result, &AllInformation{
			Path:                dir,
			IsFile:              node.isLeaf,
			TotalLines:          node.TotalLines,
			TotalCoveredLines:   node.TotalCoveredLines,
			TotalViolationLines: node.TotalViolationLines,
			TotalIssues:         node.TotalIssues,
		})

		names := make([]string, 0, len(node.Nodes))
		for name := range node.Nodes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			dfs(node.Nodes[name], path.Join(dir, name))
		}
	}

	dfs(p.Root, "")
	return result
}

func (p *coverageTree) Find(dir string) *TreeNode {
	trimmed := strings.Trim(dir, separator)
	if trimmed == "" {
		return p.Root
	}

	currentNode := p.Root
	for _, name := range strings.Split(trimmed, separator) {
		node, ok := currentNode.Nodes[name]
		if !ok {
			return nil
		}
		currentNode = node
	}
	return currentNode
}

func (p *coverageTree) FindOrCreate(file string) *TreeNode {
	dir, f := path.Split(strings.Trim(file, separator))

	currentNode := p.Root
	if d := strings.Trim(dir, separator); d != "" {
		for _, name := range strings.Split(d, separator) {
			node, ok := currentNode.Nodes[name]
			if !ok {
				node = NewTreeNode(name, false)
				currentNode.Nodes[name] = node
			}
			currentNode = node
		}
	}

	if leaf, ok := currentNode.Nodes[f]; ok {
		return leaf
	}
	leaf := NewTreeNode(f, true)
	currentNode.Nodes[f] = leaf
	return leaf
}

func (p *coverageTree) CollectCoverageData() {
	collect(p.Root)
}

// collect collects coverage data bottom-up.
// After collecting, the root node contains the whole coverage view of the project,
// and returns four values: total, covered, violation and issues.
func collect(root *TreeNode) (int64, int64, int64, int64) {
	if root == nil {
		return 0, 0, 0, 0
	}
	if root.isLeaf {
		return root.TotalLines, root.TotalCoveredLines, root.TotalViolationLines, root.TotalIssues
	}

	var total, covered, violation, issues int64
	for _, node := range root.Nodes {
		t, c, v, i := collect(node)
		total += t
		covered += c
		violation += v
		issues += i
	}

	root.TotalLines = total
	root.TotalCoveredLines = covered
	root.TotalViolationLines = violation
	root.TotalIssues = issues

	return total, covered, violation, issues
}
