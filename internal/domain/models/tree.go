// internal/domain/models/tree.go
package models

// File tree node types.
const (
	NodeFile   = "file"
	NodeFolder = "folder"
)

// FileNode is one node in a repository file tree. Trees are transient: they
// are rebuilt from the flat path listing on every read request and never
// persisted or cached.
type FileNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"` // relative path from the repo root
	Type     string      `json:"type"` // NodeFile or NodeFolder
	Children []*FileNode `json:"children,omitempty"`
}

// Branches describes the branch listing of one repository.
type Branches struct {
	Current string   `json:"current"`
	All     []string `json:"all"`
}

// Commit is one commit summary returned by history listings.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}
