package export

import (
	"path"
	"slices"
	"strings"
)

// File is one generated file.
type File struct {
	Path    string
	Content []byte
}

// FileSet is the virtual file tree handed to the archive builder.
// Paths are slash-separated and relative to the project root.
type FileSet struct {
	Project string

	folders []string
	files   []File
	index   map[string]int
}

// NewFileSet creates an empty tree for the project.
func NewFileSet(project string) *FileSet {
	return &FileSet{
		Project: project,
		index:   make(map[string]int),
	}
}

// AddFolder declares a (possibly empty) folder. Declaring it twice is harmless.
func (fs *FileSet) AddFolder(p string) error {
	if err := checkPath(p); err != nil {
		return err
	}
	if _, isFile := fs.index[p]; isFile {
		return &ScaffoldError{Path: p, Reason: "a file with this path already exists"}
	}
	for _, f := range fs.files {
		if strings.HasPrefix(p+"/", f.Path+"/") {
			return &ScaffoldError{Path: p, Reason: "parent " + f.Path + " is a file"}
		}
	}
	if !slices.Contains(fs.folders, p) {
		fs.folders = append(fs.folders, p)
	}
	return nil
}

// AddFile adds a file. Paths must be unique and must not clash with folders.
func (fs *FileSet) AddFile(p string, content []byte) error {
	if err := checkPath(p); err != nil {
		return err
	}
	if _, exists := fs.index[p]; exists {
		return &ScaffoldError{Path: p, Reason: "duplicate file"}
	}
	for _, dir := range fs.Folders() {
		if dir == p {
			return &ScaffoldError{Path: p, Reason: "a folder with this path already exists"}
		}
	}
	for _, f := range fs.files {
		if strings.HasPrefix(p, f.Path+"/") {
			return &ScaffoldError{Path: p, Reason: "parent " + f.Path + " is a file"}
		}
		if strings.HasPrefix(f.Path, p+"/") {
			return &ScaffoldError{Path: p, Reason: "already used as a folder by " + f.Path}
		}
	}
	fs.index[p] = len(fs.files)
	fs.files = append(fs.files, File{Path: p, Content: content})
	return nil
}

// Files returns the files in the order they were added.
func (fs *FileSet) Files() []File {
	return slices.Clone(fs.files)
}

// File returns the content at path.
func (fs *FileSet) File(p string) ([]byte, bool) {
	i, ok := fs.index[p]
	if !ok {
		return nil, false
	}
	return fs.files[i].Content, true
}

// Paths returns every file path in sorted order.
func (fs *FileSet) Paths() []string {
	out := make([]string, len(fs.files))
	for i, f := range fs.files {
		out[i] = f.Path
	}
	slices.Sort(out)
	return out
}

// Folders returns the declared folders plus every parent folder implied by a
// file, in sorted order.
func (fs *FileSet) Folders() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(dir string) {
		for dir != "." && dir != "" && !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
			dir = path.Dir(dir)
		}
	}
	for _, dir := range fs.folders {
		add(dir)
	}
	for _, f := range fs.files {
		add(path.Dir(f.Path))
	}
	slices.Sort(out)
	return out
}

// Len returns the number of files.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

func checkPath(p string) error {
	switch {
	case p == "", p == ".":
		return &ScaffoldError{Path: p, Reason: "empty path"}
	case strings.HasPrefix(p, "/"), strings.Contains(p, `\`):
		return &ScaffoldError{Path: p, Reason: "path must be relative and slash-separated"}
	case path.Clean(p) != p:
		return &ScaffoldError{Path: p, Reason: "path is not clean"}
	case p == "..", strings.HasPrefix(p, "../"):
		return &ScaffoldError{Path: p, Reason: "path escapes the project root"}
	}
	return nil
}
