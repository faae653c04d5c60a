package catalog

import "io/fs"

type Loader interface {
	LoadEmbedded() (*Catalog, error)
	LoadDir(root string) (*Catalog, error)
	Load(fsys fs.FS) (*Catalog, error)
}
