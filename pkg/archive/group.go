package archive

import (
	"os"
	"path/filepath"
	"strings"
)

// ListArtifacts scans a directory (non-recursively) and parses every regular
// file into an Artifact. Hidden files are skipped. A missing directory is
// treated as empty rather than an error.
func ListArtifacts(dir string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// File disappeared between readdir and stat; skip it.
			continue
		}

		base, ts, kind := ParseFilename(entry.Name())
		artifacts = append(artifacts, Artifact{
			Path:       filepath.Join(dir, entry.Name()),
			BaseName:   base,
			Timestamp:  ts,
			Kind:       kind,
			ModifiedAt: info.ModTime(),
		})
	}

	return artifacts, nil
}

// GroupByBaseName buckets a directory's artifacts by their base name. Two
// files belong to the same group only when their base names are identical.
func GroupByBaseName(dir string) (map[string][]Artifact, error) {
	artifacts, err := ListArtifacts(dir)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]Artifact)
	for _, a := range artifacts {
		groups[a.BaseName] = append(groups[a.BaseName], a)
	}
	return groups, nil
}

// Latest returns the newest artifact in a group. Filename timestamps take
// priority over modification times; ties keep the first artifact encountered.
func Latest(group []Artifact) Artifact {
	latest := group[0]
	for _, a := range group[1:] {
		if a.sortKey() > latest.sortKey() {
			latest = a
		}
	}
	return latest
}
