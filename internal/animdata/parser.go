package animdata

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/blendspace-builder/pkg/skeletal"
)

// ParseSkeletonFile reads a skeleton document.
//
// Parameters:
//   - path: Path to the YAML file, e.g., "data/anims/SK_Hero.yaml"
//
// Returns:
//   - *SkeletonFile: The parsed skeleton definition
//   - error: Read or parse error, or nil if successful
func ParseSkeletonFile(path string) (*SkeletonFile, error) {
	var def SkeletonFile
	if err := decodeFile(path, &def); err != nil {
		return nil, err
	}
	if def.Kind != KindSkeleton {
		return nil, fmt.Errorf("'%s' is not a skeleton document (kind=%q)", path, def.Kind)
	}
	return &def, nil
}

// ParseClipFile reads a clip document.
func ParseClipFile(path string) (*ClipFile, error) {
	var def ClipFile
	if err := decodeFile(path, &def); err != nil {
		return nil, err
	}
	if def.Kind != KindClip {
		return nil, fmt.Errorf("'%s' is not a clip document (kind=%q)", path, def.Kind)
	}
	return &def, nil
}

func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read anim file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML from '%s': %w", path, err)
	}
	return nil
}

// Library is a set of skeletons and clips loaded from a directory tree.
// It implements skeletal.AssetRegistry, skeletal.ClipResolver and
// skeletal.SkeletonResolver.
type Library struct {
	skeletons map[string]*Skeleton
	clips     map[string]*Clip
}

var (
	_ skeletal.AssetRegistry    = (*Library)(nil)
	_ skeletal.ClipResolver     = (*Library)(nil)
	_ skeletal.SkeletonResolver = (*Library)(nil)
)

// LoadLibrary walks root and loads every .yaml/.yml document.
//
// Documents with an unknown kind are skipped with a warning. A clip whose
// skeleton is not in the library is still loaded, with a nil skeleton.
func LoadLibrary(root string) (*Library, error) {
	var skeletonDefs []*SkeletonFile
	var clipDefs []*ClipFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		var h header
		if err := decodeFile(path, &h); err != nil {
			return err
		}

		switch h.Kind {
		case KindSkeleton:
			def, err := ParseSkeletonFile(path)
			if err != nil {
				return err
			}
			if def.Path == "" {
				def.Path = assetPath(root, path)
			}
			if def.Name == "" {
				def.Name = filepath.Base(def.Path)
			}
			skeletonDefs = append(skeletonDefs, def)
		case KindClip:
			def, err := ParseClipFile(path)
			if err != nil {
				return err
			}
			if def.Path == "" {
				def.Path = assetPath(root, path)
			}
			if def.Name == "" {
				def.Name = filepath.Base(def.Path)
			}
			clipDefs = append(clipDefs, def)
		default:
			log.Printf("[AnimData] Warning: skipping '%s' with unknown kind %q", path, h.Kind)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load anim library '%s': %w", root, err)
	}

	lib := &Library{
		skeletons: make(map[string]*Skeleton, len(skeletonDefs)),
		clips:     make(map[string]*Clip, len(clipDefs)),
	}

	for _, def := range skeletonDefs {
		if _, dup := lib.skeletons[def.Path]; dup {
			return nil, fmt.Errorf("duplicate skeleton path '%s'", def.Path)
		}
		s, err := NewSkeleton(def)
		if err != nil {
			return nil, err
		}
		lib.skeletons[def.Path] = s
	}

	for _, def := range clipDefs {
		if _, dup := lib.clips[def.Path]; dup {
			return nil, fmt.Errorf("duplicate clip path '%s'", def.Path)
		}
		s := lib.skeletons[def.Skeleton]
		if s == nil {
			log.Printf("[AnimData] Warning: clip '%s' references missing skeleton '%s'", def.Path, def.Skeleton)
		}
		c, err := NewClip(def, s)
		if err != nil {
			return nil, err
		}
		lib.clips[def.Path] = c
	}

	return lib, nil
}

// assetPath turns a file path into an asset path: "/" + path relative to
// root with forward slashes and no extension.
func assetPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return "/" + filepath.ToSlash(rel)
}

// ListClipAssets returns every clip, sorted by path.
func (l *Library) ListClipAssets() []skeletal.AssetData {
	out := make([]skeletal.AssetData, 0, len(l.clips))
	for path, c := range l.clips {
		skeletonPath := ""
		if c.skeleton != nil {
			skeletonPath = c.skeleton.Path()
		}
		out = append(out, skeletal.AssetData{
			Path:         path,
			Name:         c.Name(),
			SkeletonPath: skeletonPath,
			RootMotion:   c.RootMotionEnabled(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ResolveClip looks a clip up by asset path.
func (l *Library) ResolveClip(path string) (skeletal.Clip, bool) {
	c, ok := l.clips[path]
	if !ok {
		return nil, false
	}
	return c, true
}

// ResolveSkeleton looks a skeleton up by asset path.
func (l *Library) ResolveSkeleton(path string) (skeletal.Skeleton, bool) {
	s, ok := l.skeletons[path]
	if !ok {
		return nil, false
	}
	return s, true
}

// FindSkeleton resolves a skeleton by asset path or, failing that, by name.
func (l *Library) FindSkeleton(pathOrName string) (*Skeleton, bool) {
	if s, ok := l.skeletons[pathOrName]; ok {
		return s, true
	}
	for _, s := range l.skeletons {
		if s.Name() == pathOrName {
			return s, true
		}
	}
	return nil, false
}

// SkeletonPaths returns all skeleton asset paths, sorted.
func (l *Library) SkeletonPaths() []string {
	paths := make([]string, 0, len(l.skeletons))
	for p := range l.skeletons {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
