package dialect

import (
	"os"
	"path/filepath"
	"strings"
)

// ReadFile reads a dialect document from disk. The document is named after
// the file's base name without extension, which is how include references
// resolve against it.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Document{Name: name, Data: data}, nil
}

// ReadDir reads every .toml document in dir, for use as the include set of
// a Load call. A missing or empty directory yields no documents.
func ReadDir(dir string) ([]Document, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var docs []Document
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		doc, err := ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
