// internal/app/tree/tree.go
// Package tree converts the flat file path listing of one ref into the
// sorted hierarchical node tree the repository browser renders.
//
// Build is pure and stateless: it never touches storage, so independent
// requests can run it fully in parallel.
package tree

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

// Build converts forward-slash-delimited file paths into the root level of a
// file tree. Each input path names exactly one file; folder nodes are
// created implicitly the first time a segment is seen at a given level and
// reused thereafter. Output order is deterministic for any permutation of
// the input: folders before files, same-type siblings in collator order.
// An empty input yields an empty tree.
func Build(paths []string) []*models.FileNode {
	var roots []*models.FileNode
	index := make(map[string]*models.FileNode) // folder path -> node

	for _, p := range paths {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		segments := strings.Split(p, "/")

		parentPath := ""
		var siblings *[]*models.FileNode = &roots

		for _, seg := range segments[:len(segments)-1] {
			folderPath := joinPath(parentPath, seg)
			folder, ok := index[folderPath]
			if !ok {
				folder = &models.FileNode{
					Name: seg,
					Path: folderPath,
					Type: models.NodeFolder,
				}
				index[folderPath] = folder
				*siblings = append(*siblings, folder)
			}
			parentPath = folderPath
			siblings = &folder.Children
		}

		leaf := segments[len(segments)-1]
		*siblings = append(*siblings, &models.FileNode{
			Name: leaf,
			Path: joinPath(parentPath, leaf),
			Type: models.NodeFile,
		})
	}

	// Collators are not safe for concurrent use, so each Build gets its own.
	c := collate.New(language.Und, collate.Loose)
	sortLevel(roots, c)
	return roots
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// sortLevel orders one sibling level and recurses into folders: folders
// before files, then collator order, with a byte-order tie-break so names
// that fold equal still sort deterministically.
func sortLevel(nodes []*models.FileNode, c *collate.Collator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Type != b.Type {
			return a.Type == models.NodeFolder
		}
		if cmp := c.CompareString(a.Name, b.Name); cmp != 0 {
			return cmp < 0
		}
		return a.Name < b.Name
	})
	for _, n := range nodes {
		if n.Type == models.NodeFolder {
			sortLevel(n.Children, c)
		}
	}
}
