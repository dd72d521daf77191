// Package levels holds the demo maps, their tileset and the NPC scripts.
package levels

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/milk9111/tilerpg/assets"
)

//go:embed *.json tiles scripts
var LevelsFS embed.FS

// ScriptDir holds one <map>.tengo controller per scripted map.
const ScriptDir = "scripts"

// FS returns the level tree. A non-empty dir shadows the embedded files.
func FS(dir string) fs.FS {
	if dir == "" {
		return LevelsFS
	}
	return assets.Overlay(os.DirFS(dir), LevelsFS)
}

// Names lists the maps at the root of fsys, without extension.
func Names(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch ext := path.Ext(e.Name()); ext {
		case ".json", ".tmj":
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(names)
	return names, nil
}
