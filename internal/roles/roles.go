package roles

import (
	"fmt"
	"strings"
)

// Role identifies one of the fixed staff tiers of the innovation office.
// Roles are a closed enumeration so a typo cannot silently create a role
// that no permission row will ever match.
type Role string

const (
	Innovator  Role = "innovator"
	IPManager  Role = "ipManager"
	Admin      Role = "admin"
	SuperAdmin Role = "superAdmin"
)

// levels maps every valid role to a strictly increasing authority level.
// The mapping is total and injective: outranking is plain integer comparison.
var levels = map[Role]int{
	Innovator:  1,
	IPManager:  2,
	Admin:      3,
	SuperAdmin: 4,
}

var displayNames = map[Role]string{
	Innovator:  "Innovator",
	IPManager:  "IP Manager",
	Admin:      "Administrator",
	SuperAdmin: "Super Administrator",
}

// All returns every valid role ordered by ascending authority.
func All() []Role {
	return []Role{Innovator, IPManager, Admin, SuperAdmin}
}

// Parse converts a raw string into a Role, rejecting unknown values.
func Parse(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("roles: unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether the role is one of the defined tiers.
func (r Role) Valid() bool {
	_, ok := levels[r]
	return ok
}

// Level returns the numeric authority level, or 0 for an unknown role.
func (r Role) Level() int {
	return levels[r]
}

// Outranks reports whether r has strictly higher authority than other.
func (r Role) Outranks(other Role) bool {
	return r.Level() > other.Level()
}

// AtLeast reports whether r has authority equal to or above other.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && r.Level() >= other.Level()
}

// DisplayName returns the human-readable name for the role.
func (r Role) DisplayName() string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	return string(r)
}

func (r Role) String() string { return string(r) }

// Elevated reports whether the role bypasses ownership checks. The bypass set
// is intentionally the literal pair {admin, superAdmin} rather than a level
// threshold, matching established office policy.
func (r Role) Elevated() bool {
	return r == Admin || r == SuperAdmin
}

// Strings converts a role slice to its string form, for error payloads.
func Strings(rs []Role) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
