// Package fs provides the on-disk cache layer for scrape artifacts.
//
// Every logical resource maps to a deterministic path under a root work
// directory, and every write is atomic: payloads land in a temporary
// sibling file and are renamed into place only once complete. A file that
// exists is therefore always complete, which is the invariant the whole
// resumable-scrape design rests on.
package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

// WorkDir maps logical resources to cache paths under a root directory.
type WorkDir struct {
	root string
}

// NewWorkDir creates the root directory if needed and returns a WorkDir.
func NewWorkDir(root string) (*WorkDir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &WorkDir{root: root}, nil
}

// Root returns the work directory root.
func (w *WorkDir) Root() string {
	return w.root
}

// PackageListPath is the cache path for one month's package list.
func (w *WorkDir) PackageListPath(year, month int) string {
	return filepath.Join(w.root, strconv.Itoa(year), strconv.Itoa(month), "packages.json")
}

// ReferencesPath is the cache path for one package's extracted citations.
func (w *WorkDir) ReferencesPath(year, month int, packageID string) string {
	return filepath.Join(w.root, strconv.Itoa(year), strconv.Itoa(month), packageID+"-references.json")
}

// AgenciesPath is the cache path for the eCFR agency list.
func (w *WorkDir) AgenciesPath() string {
	return filepath.Join(w.root, "ecfr-agencies.json")
}

// StructurePath is the cache path for one title's structural metadata.
func (w *WorkDir) StructurePath(year, month, title int) string {
	return filepath.Join(w.root, "cfr-structure", strconv.Itoa(year), strconv.Itoa(month),
		fmt.Sprintf("title-%d-structure.json", title))
}

// DescriptionsPath is the cache path for one title's description tables.
func (w *WorkDir) DescriptionsPath(year, month, title int) string {
	return filepath.Join(w.root, "cfr-structure", strconv.Itoa(year), strconv.Itoa(month),
		fmt.Sprintf("title-%d-descriptions.json", title))
}

// PartXMLPath is the cache path for one regulation part's XML.
func (w *WorkDir) PartXMLPath(year, month, title int, chapter string, part int) string {
	return filepath.Join(w.root, "cfr-xml", strconv.Itoa(year), strconv.Itoa(month),
		fmt.Sprintf("title-%d", title), fmt.Sprintf("chapter-%s", chapter), fmt.Sprintf("part-%d.xml", part))
}

// Exists reports whether a cache path holds a complete artifact.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureFile produces the artifact at path if it is absent. It returns
// false immediately when the file already exists. Otherwise produce writes
// the payload into a temporary sibling file which is renamed onto path only
// after produce returns successfully; on error the temporary file is
// removed and path is left absent so the next run retries from scratch.
func (w *WorkDir) EnsureFile(path string, produce func(io.Writer) error) (created bool, err error) {
	if Exists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create parent dirs: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	if err := produce(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return false, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("rename into place: %w", err)
	}
	return true, nil
}

// WriteJSON atomically writes v as JSON to path.
func (w *WorkDir) WriteJSON(path string, v any) error {
	_, err := w.EnsureFile(path, func(f io.Writer) error {
		return json.NewEncoder(f).Encode(v)
	})
	return err
}

// ReadJSON decodes the JSON artifact at path into v. Returns ENOTFOUND if
// the artifact is absent.
func (w *WorkDir) ReadJSON(path string, v any) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfr.Errorf(cfr.ENOTFOUND, "cache artifact %q not found", path)
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

// PackageListPaths returns every cached package-list file, across all
// year/month partitions.
func (w *WorkDir) PackageListPaths() ([]string, error) {
	return filepath.Glob(filepath.Join(w.root, "*", "*", "packages.json"))
}

// ReferencePaths returns every cached citation file, across all year/month
// partitions.
func (w *WorkDir) ReferencePaths() ([]string, error) {
	return filepath.Glob(filepath.Join(w.root, "*", "*", "USCOURTS-*-references.json"))
}

// PartXML describes one cached regulation-part XML file, with the
// title/chapter/part recovered from its path.
type PartXML struct {
	Path    string
	Title   int
	Chapter string
	Part    int
}

// PartXMLs enumerates every cached part XML for one year/month partition.
func (w *WorkDir) PartXMLs(year, month int) ([]PartXML, error) {
	paths, err := filepath.Glob(filepath.Join(w.root, "cfr-xml", strconv.Itoa(year), strconv.Itoa(month),
		"title-*", "chapter-*", "part-*.xml"))
	if err != nil {
		return nil, err
	}

	var parts []PartXML
	for _, p := range paths {
		chapterDir := filepath.Dir(p)
		titleDir := filepath.Dir(chapterDir)

		title, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(titleDir), "title-"))
		if err != nil {
			return nil, fmt.Errorf("malformed title dir %q: %w", titleDir, err)
		}
		chapter := strings.TrimPrefix(filepath.Base(chapterDir), "chapter-")
		part, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(filepath.Base(p), "part-"), ".xml"))
		if err != nil {
			return nil, fmt.Errorf("malformed part file %q: %w", p, err)
		}

		parts = append(parts, PartXML{Path: p, Title: title, Chapter: chapter, Part: part})
	}
	return parts, nil
}
