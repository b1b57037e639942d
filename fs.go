package assoofs

import (
	"io/fs"
	"strings"
)

var _ fs.FS = (*Superblock)(nil)
var _ fs.StatFS = (*Superblock)(nil)
var _ fs.ReadDirFS = (*Superblock)(nil)

// FindInode resolves a slash-separated path (relative to the root
// directory; a leading "/" is ignored) to its *Inode, walking one
// directory lookup per path component. assoofs has no symlinks, so there
// is no loop-detection concern.
func (sb *Superblock) FindInode(name string) (*Inode, error) {
	name = strings.Trim(name, "/")
	cur := sb.root
	if name == "" || name == "." {
		return cur, nil
	}

	for _, part := range strings.Split(name, "/") {
		if part == "" {
			continue
		}
		d, err := cur.Dir()
		if err != nil {
			return nil, fs.ErrInvalid
		}
		next, err := d.Lookup(part)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Open implements fs.FS. A directory path returns an *FileDir (satisfying
// fs.ReadDirFile); a regular-file path returns a *File.
func (sb *Superblock) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	ino, err := sb.FindInode(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if ino.IsDir() {
		d, _ := ino.Dir()
		return &FileDir{name: name, dir: d}, nil
	}
	return &File{sb: sb, ino: ino, name: name}, nil
}

// Stat implements fs.StatFS.
func (sb *Superblock) Stat(name string) (fs.FileInfo, error) {
	ino, err := sb.FindInode(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return &fileinfo{name: pathBase(name), ino: ino}, nil
}

// ReadDir implements fs.ReadDirFS.
func (sb *Superblock) ReadDir(name string) ([]fs.DirEntry, error) {
	ino, err := sb.FindInode(name)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	d, err := ino.Dir()
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	return d.ReadDir(-1)
}

func pathBase(name string) string {
	name = strings.TrimRight(name, "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func splitParent(name string) (parent, base string) {
	name = strings.Trim(name, "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
