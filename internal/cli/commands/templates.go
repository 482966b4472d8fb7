package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed all:templates
var templateFS embed.FS

// copyTemplate copies an embedded template directory to targetDir.
// Existing files are left alone unless force is set.
func copyTemplate(templateName, targetDir string, force bool) error {
	root := path.Join("templates", templateName)

	return fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath := p[len(root):]
		if relPath == "" {
			return nil
		}
		targetPath := filepath.Join(targetDir, filepath.FromSlash(renameSpecialFiles(relPath[1:])))

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0750)
		}

		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil // Skip existing files
			}
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}

		return os.WriteFile(targetPath, content, 0600)
	})
}

// renameSpecialFiles maps template names to dotfiles, e.g. "gitignore".
func renameSpecialFiles(p string) string {
	dir, base := path.Split(p)
	switch base {
	case "gitignore":
		return dir + ".gitignore"
	default:
		return p
	}
}

// listTemplateFiles returns the files a template creates, as written to disk.
func listTemplateFiles(templateName string) ([]string, error) {
	var files []string
	root := path.Join("templates", templateName)

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, renameSpecialFiles(p[len(root)+1:]))
		}
		return nil
	})

	return files, err
}
