package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	BenchExt        = ".bench"
	OptimizedSuffix = "_opt"
)

type FileInfo struct {
	Path string
	Size int64
}

// Pair is a reference bench file and its optimized variant.
type Pair struct {
	Name      string
	Reference string
	Optimized string
}

type Scanner struct {
	rootDir    string
	extensions []string
}

func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the root directory and returns the target files sorted by
// path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if s.isTargetFile(path) {
			files = append(files, FileInfo{Path: path, Size: info.Size()})
		}
		return nil
	})
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Pairs matches every `<name>.bench` with a sibling `<name>_opt.bench`.
// Reference files without an optimized sibling are returned as orphans.
func Pairs(files []FileInfo) (pairs []Pair, orphans []string) {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.Path] = true
	}
	for _, f := range files {
		ext := filepath.Ext(f.Path)
		base := strings.TrimSuffix(f.Path, ext)
		if strings.HasSuffix(base, OptimizedSuffix) {
			continue
		}
		opt := base + OptimizedSuffix + ext
		if !present[opt] {
			orphans = append(orphans, f.Path)
			continue
		}
		pairs = append(pairs, Pair{
			Name:      filepath.Base(base),
			Reference: f.Path,
			Optimized: opt,
		})
	}
	return pairs, orphans
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
