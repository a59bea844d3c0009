package report

import (
	"testing"

	"github.com/Azure/swiftreport/pkg/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() *TreeNode {
	// root
	//    |-- Sources
	//    |   |-- Foo.swift
	//    |   |-- Models
	//    |       |-- User.swift
	//    |-- Tests
	//        |-- FooTests.swift
	return &TreeNode{
		Name: "App",
		Nodes: map[string]*TreeNode{
			"Sources": {
				Name: "Sources",
				Nodes: map[string]*TreeNode{
					"Foo.swift": {
						Name:                "Foo.swift",
						TotalLines:          100,
						TotalCoveredLines:   80,
						TotalViolationLines: 20,
						TotalIssues:         1,
						isLeaf:              true,
					},
					"Models": {
						Name: "Models",
						Nodes: map[string]*TreeNode{
							"User.swift": {
								Name:                "User.swift",
								TotalLines:          50,
								TotalCoveredLines:   50,
								TotalViolationLines: 0,
								TotalIssues:         2,
								isLeaf:              true,
							},
						},
					},
				},
			},
			"Tests": {
				Name: "Tests",
				Nodes: map[string]*TreeNode{
					"FooTests.swift": {
						Name:        "FooTests.swift",
						TotalIssues: 3,
						isLeaf:      true,
					},
				},
			},
		},
	}
}

func TestCollect(t *testing.T) {
	t.Run("nil root", func(t *testing.T) {
		total, covered, violation, issues := collect(nil)
		assert.Zero(t, total)
		assert.Zero(t, covered)
		assert.Zero(t, violation)
		assert.Zero(t, issues)
	})

	t.Run("bottom up", func(t *testing.T) {
		root := newTestTree()
		total, covered, violation, issues := collect(root)
		assert.Equal(t, int64(150), total)
		assert.Equal(t, int64(130), covered)
		assert.Equal(t, int64(20), violation)
		assert.Equal(t, int64(6), issues)

		sources := root.Nodes["Sources"]
		assert.Equal(t, int64(150), sources.TotalLines)
		assert.Equal(t, int64(3), sources.TotalIssues)
	})

	t.Run("collect twice does not double count", func(t *testing.T) {
		tree := &coverageTree{Root: newTestTree()}
		tree.CollectCoverageData()
		tree.CollectCoverageData()
		assert.Equal(t, int64(150), tree.Root.TotalLines)
	})
}

func TestFindOrCreate(t *testing.T) {
	tree := NewCoverageTree("App")

	leaf := tree.FindOrCreate("Sources/App/Foo.swift")
	require.NotNil(t, leaf)
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, "Foo.swift", leaf.Name)
	assert.Same(t, leaf, tree.FindOrCreate("Sources/App/Foo.swift"))

	top := tree.FindOrCreate("Package.swift")
	assert.Equal(t, "Package.swift", top.Name)

	dir := tree.Find("Sources/App")
	require.NotNil(t, dir)
	assert.False(t, dir.IsLeaf())
	assert.Contains(t, dir.Nodes, "Foo.swift")

	assert.Nil(t, tree.Find("Sources/Missing"))
	assert.Equal(t, "App", tree.Find("").Name)
}

func TestNewCoverageTreeFromStatistics(t *testing.T) {
	statistics := &Statistics{
		ProjectName: "App",
		CoverageProfile: []*CoverageProfile{
			{FileName: "Sources/Foo.swift", TotalLines: 4, CoveredLines: 3, TotalViolationLines: []int{7}},
			{FileName: "Sources/Models/User.swift", TotalLines: 2, CoveredLines: 2},
			{FileName: "Tests/FooTests.swift", Issues: []measure.Issue{{Rule: "line_length"}}},
		},
	}

	all := NewCoverageTreeFromStatistics(statistics).All()

	var paths []string
	for _, info := range all {
		paths = append(paths, info.Path)
	}
	assert.Equal(t, []string{
		"",
		"Sources",
		"Sources/Foo.swift",
		"Sources/Models",
		"Sources/Models/User.swift",
		"Tests",
		"Tests/FooTests.swift",
	}, paths)

	assert.Equal(t, int64(6), all[0].TotalLines)
	assert.Equal(t, int64(5), all[0].TotalCoveredLines)
	assert.Equal(t, int64(1), all[0].TotalViolationLines)
	assert.Equal(t, int64(1), all[0].TotalIssues)
	assert.False(t, all[1].IsFile)
	assert.True(t, all[2].IsFile)
}
