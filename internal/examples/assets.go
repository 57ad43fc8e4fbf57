package examples

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Name identifies one example. It is the basename of the example directory.
type Name string

// ParseName validates a user-supplied example name (e.g. from --only).
func ParseName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", fmt.Errorf("example name is empty")
	case s == "." || s == "..":
		return "", fmt.Errorf("invalid example name %q", s)
	case strings.ContainsAny(s, `/\`):
		return "", fmt.Errorf("example name %q must not contain path separators", s)
	}
	return Name(s), nil
}

// ParseNames splits a comma-separated list, dropping duplicates while keeping order.
func ParseNames(list []string) ([]Name, error) {
	var out []Name
	for _, item := range list {
		for part := range strings.SplitSeq(item, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			n, err := ParseName(part)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(out, n) {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func (n Name) String() string { return string(n) }

// Role is the part an asset file plays for an example.
type Role string

const (
	RoleSource      Role = "source"
	RoleCodeVis     Role = "code_vis"
	RoleTimelineVis Role = "timeline_vis"
)

// RequiredRoles lists every role a complete example must provide, in staging order.
var RequiredRoles = []Role{RoleSource, RoleCodeVis, RoleTimelineVis}

var roleFiles = map[Role]string{
	RoleSource:      "source.rs",
	RoleCodeVis:     "vis_code.svg",
	RoleTimelineVis: "vis_timeline.svg",
}

// FileName returns the fixed file name for the role.
func (r Role) FileName() string { return roleFiles[r] }

func (r Role) String() string { return string(r) }

// AssetPath returns <root>/<name>/<file> for the role.
func AssetPath(root string, name Name, role Role) string {
	return filepath.Join(root, string(name), role.FileName())
}
