// Package docmodel defines the in-memory content model shared by the document
// assembler and plugin transforms.
package docmodel

// File is one ordered content source within a document. Content holds markdown
// text; plugin transforms rewrite it in place before rendering.
type File struct {
	// Path is the file's path relative to the source directory.
	Path string

	// Slug is the filesystem-derived section identifier used for anchors
	// and navigation.
	Slug string

	// Title is the first top-level heading, when one exists.
	Title string

	Content []byte

	// Metadata carries plugin-contributed key/value annotations.
	Metadata map[string]any
}

// Document is the concatenated content model a build pass operates on.
// Files keeps assembly order; transforms must never reorder it.
type Document struct {
	SourceDir string
	Files     []*File
}

// NewDocument creates an empty document model rooted at sourceDir.
func NewDocument(sourceDir string) *Document {
	return &Document{SourceDir: sourceDir}
}

// Append adds a content file, preserving assembly order.
func (d *Document) Append(f *File) {
	d.Files = append(d.Files, f)
}
