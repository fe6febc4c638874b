package poster

import "io"

// Store keeps the uploaded poster images referenced by shows. Names
// returned by Save are opaque and safe to persist on the show record.
type Store interface {
	Save(originalFilename string, contents io.Reader) (string, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
}
