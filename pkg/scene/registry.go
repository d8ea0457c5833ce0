package scene

import (
	"cmp"
	"fmt"
	"slices"
)

// Info describes a built-in scene
type Info struct {
	Name        string
	Description string
}

type builtin struct {
	Info
	build func() (*Scene, error)
}

var builtins = []builtin{
	{Info{"default", "Primitives, CSG solids, a sliced heightfield and glass under a gradient sky"}, NewDefaultScene},
	{Info{"cornell", "Cornell box with an area light, a hollow glass shell and a mixed material block"}, NewCornellScene},
}

// List returns the built-in scenes sorted by name
func List() []Info {
	infos := make([]Info, 0, len(builtins))
	for _, b := range builtins {
		infos = append(infos, b.Info)
	}
	slices.SortFunc(infos, func(a, b Info) int { return cmp.Compare(a.Name, b.Name) })
	return infos
}

// Names returns the names of the built-in scenes sorted alphabetically
func Names() []string {
	var names []string
	for _, info := range List() {
		names = append(names, info.Name)
	}
	return names
}

// ByName creates the built-in scene called name
func ByName(name string) (*Scene, error) {
	for _, b := range builtins {
		if b.Name == name {
			return b.build()
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}
