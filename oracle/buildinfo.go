package oracle

import (
	"runtime/debug"
)

// FromBuildInfo returns the module build list of bi as an inventory. The main
// module is included. Replaced modules report the version of the
// replacement.
func FromBuildInfo(bi *debug.BuildInfo) *Static {
	s := NewStatic(nil)
	if bi == nil {
		return s
	}
	if bi.Main.Path != "" {
		s.versions[bi.Main.Path] = moduleVersion(&bi.Main)
	}
	for _, dep := range bi.Deps {
		if dep == nil {
			continue
		}
		s.versions[dep.Path] = moduleVersion(dep)
	}
	return s
}

// Running returns the inventory of the running binary. It is empty when the
// binary was built without module support.
func Running() *Static {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return NewStatic(nil)
	}
	return FromBuildInfo(bi)
}

func moduleVersion(m *debug.Module) string {
	if m.Replace != nil && m.Replace.Version != "" {
		return m.Replace.Version
	}
	return m.Version
}
