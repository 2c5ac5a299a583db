package http

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Pages maps front end routes to HTML files in the static directory.
var Pages = map[string]string{
	"/":          "index.html",
	"/admin":     "admin.html",
	"/short":     "short.html",
	"/thumbnail": "thumbnail.html",
}

func pageHandler(dir, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		switch {
		case errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()):
			writeError(w, http.StatusNotFound, "page not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to load page")
			return
		}
		http.ServeFile(w, r, full)
	}
}

// noListingFS hides directories that have no index.html, so uploads cannot be enumerated.
type noListingFS struct {
	root http.FileSystem
}

func (fsys noListingFS) Open(name string) (http.File, error) {
	f, err := fsys.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := fsys.root.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, fs.ErrNotExist
		}
		index.Close()
	}
	return f, nil
}

// assetsHandler serves remaining static files; unknown API paths get a JSON 404.
func assetsHandler(dir string) http.HandlerFunc {
	files := http.FileServer(noListingFS{root: http.Dir(dir)})
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		files.ServeHTTP(w, r)
	}
}
