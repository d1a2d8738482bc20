// Package scaffold provides the embedded starter project written by
// `videoshelf new`.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix; anything else
// is copied verbatim.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	ProjectName string
	SiteName    string
}

// NewData derives template data from a project name such as "my-talks".
func NewData(name string) Data {
	return Data{ProjectName: name, SiteName: ToTitle(name)}
}

// Generate writes the starter project into dir, which must not exist.
// created is called with each written path.
func Generate(dir string, data Data, created func(string)) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}
	const root = "templates"
	return fs.WalkDir(Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		outPath := filepath.Join(dir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		src, err := Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if !strings.HasSuffix(p, ".tmpl") {
			if err := os.WriteFile(outPath, src, 0o644); err != nil {
				return err
			}
			if created != nil {
				created(outPath)
			}
			return nil
		}

		outPath = strings.TrimSuffix(outPath, ".tmpl")
		// Dotfiles are stored without the dot.
		switch filepath.Base(outPath) {
		case "dotenv":
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		case "gitignore":
			outPath = filepath.Join(filepath.Dir(outPath), ".gitignore")
		}

		tmpl, err := template.New(path.Base(p)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		if err := tmpl.Execute(f, data); err != nil {
			f.Close()
			return fmt.Errorf("execute template %s: %w", p, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		if created != nil {
			created(outPath)
		}
		return nil
	})
}

// ToTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-talks" -> "My Talks", "talks" -> "Talks"
func ToTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
