package site

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded dashboard assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Expose the unrooted FS on error.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

// Asset returns the content of the named embedded asset.
func Asset(name string) ([]byte, error) {
	b, err := fs.ReadFile(staticFS, "static/"+name)
	if err != nil {
		return nil, errors.Join(ErrAssetNotFound, err)
	}
	return b, nil
}
