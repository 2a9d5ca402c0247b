//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// taxonomies lists every RDF or vocabulary file under taxonomies/.
func taxonomies() ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(taxonomyDir, "**", "*.{rdf,owl,ttl,nt,txt}"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no taxonomies found under %s", taxonomyDir)
	}
	return matches, nil
}

// Compile builds the CLI and compiles every taxonomy, refreshing the cache.
func Compile() error {
	mg.Deps(Build)
	files, err := taxonomies()
	if err != nil {
		return err
	}
	args := append([]string{"compile", "--rebuild"}, files...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Check builds the CLI and checks every RDF taxonomy for consistency.
func Check() error {
	mg.Deps(Build)
	files, err := doublestar.FilepathGlob(filepath.Join(taxonomyDir, "**", "*.{rdf,owl,ttl,nt}"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("[check] No RDF taxonomies under %s.\n", taxonomyDir)
		return nil
	}
	return sh.RunV(filepath.Join(binDir, binName), append([]string{"check"}, files...)...)
}
