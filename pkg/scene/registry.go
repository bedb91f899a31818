package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a name matches neither a built-in nor a scene file
var ErrUnknownScene = errors.New("unknown scene")

// builtins maps each built-in scene name to its constructor
var builtins = map[string]func() *Scene{
	"two-spheres": NewTwoSphereScene,
	"materials":   NewMaterialsScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds a fresh copy of the named built-in scene
func Lookup(name string) (*Scene, error) {
	create, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return create(), nil
}

// Resolve loads a scene by name or path.
// Paths ending in .json are loaded from disk. Other names are built-ins first,
// then files discovered in the scenes directory.
func Resolve(nameOrPath string) (*Scene, error) {
	if strings.HasSuffix(strings.ToLower(nameOrPath), ".json") {
		return LoadFile(nameOrPath)
	}

	if s, err := Lookup(nameOrPath); err == nil {
		return s, nil
	}

	fileScenes, err := ListFileScenes()
	if err != nil {
		return nil, err
	}
	for _, info := range fileScenes {
		if info.ID == nameOrPath || info.ID == "file:"+nameOrPath {
			return LoadFile(info.FilePath)
		}
	}

	return Lookup(nameOrPath)
}
