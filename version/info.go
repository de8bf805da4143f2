// Package version describes the build of the foldertree tools.
package version

import "fmt"

type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%v.%v.%v", v.Major, v.Minor, v.Patch)
}

type Info struct {
	Name    string
	Version Version
	Vendor  string
}

func (i Info) String() string {
	return fmt.Sprintf("%v %v (%v)", i.Name, i.Version, i.Vendor)
}

// Current is the version of this build.
var Current = Info{
	Name:    "foldertree",
	Version: Version{Major: 0, Minor: 1, Patch: 0},
	Vendor:  "Proton AG",
}
