package permissions

// Permission is the closed set of capability flags understood by the
// authorization layer. Names arriving as strings (routes, configuration)
// are parsed through Parse; anything outside the registry evaluates to
// "no access" rather than an error.
type Permission int

const (
	PermAccessAll Permission = iota
	PermViewEmployees
	PermViewUsers
	PermViewReports
	PermViewAssignments
	PermViewMaintenance
	PermModifyAssets
	PermModifyMaintenance
	PermModifyEquipmentProfiles
	PermModifyDepartments
	PermModifyUsers
	PermModifyAssignments
)

var permissionNames = [...]string{
	PermAccessAll:               "access_all",
	PermViewEmployees:           "view_employees",
	PermViewUsers:               "view_users",
	PermViewReports:             "view_reports",
	PermViewAssignments:         "view_assignments",
	PermViewMaintenance:         "view_maintenance",
	PermModifyAssets:            "modify_assets",
	PermModifyMaintenance:       "modify_maintenance",
	PermModifyEquipmentProfiles: "modify_equipment_profiles",
	PermModifyDepartments:       "modify_departments",
	PermModifyUsers:             "modify_users",
	PermModifyAssignments:       "modify_assignments",
}

var permissionsByName = func() map[string]Permission {
	m := make(map[string]Permission, len(permissionNames))
	for p, name := range permissionNames {
		m[name] = Permission(p)
	}
	return m
}()

func (p Permission) String() string {
	if int(p) < 0 || int(p) >= len(permissionNames) {
		return "unknown"
	}
	return permissionNames[p]
}

// Parse resolves a registered permission name. Matching is exact and
// case-sensitive.
func Parse(name string) (Permission, bool) {
	p, ok := permissionsByName[name]
	return p, ok
}

// RegisteredNames returns every permission name known to the registry.
func RegisteredNames() []string {
	names := make([]string, len(permissionNames))
	copy(names, permissionNames[:])
	return names
}

// Set is one user's permission flags. The zero value grants nothing.
type Set struct {
	AccessAll               bool `json:"access_all"`
	ViewEmployees           bool `json:"view_employees"`
	ViewUsers               bool `json:"view_users"`
	ViewReports             bool `json:"view_reports"`
	ViewAssignments         bool `json:"view_assignments"`
	ViewMaintenance         bool `json:"view_maintenance"`
	ModifyAssets            bool `json:"modify_assets"`
	ModifyMaintenance       bool `json:"modify_maintenance"`
	ModifyEquipmentProfiles bool `json:"modify_equipment_profiles"`
	ModifyDepartments       bool `json:"modify_departments"`
	ModifyUsers             bool `json:"modify_users"`
	ModifyAssignments       bool `json:"modify_assignments"`
}

var setFlags = map[Permission]func(*Set) *bool{
	PermAccessAll:               func(s *Set) *bool { return &s.AccessAll },
	PermViewEmployees:           func(s *Set) *bool { return &s.ViewEmployees },
	PermViewUsers:               func(s *Set) *bool { return &s.ViewUsers },
	PermViewReports:             func(s *Set) *bool { return &s.ViewReports },
	PermViewAssignments:         func(s *Set) *bool { return &s.ViewAssignments },
	PermViewMaintenance:         func(s *Set) *bool { return &s.ViewMaintenance },
	PermModifyAssets:            func(s *Set) *bool { return &s.ModifyAssets },
	PermModifyMaintenance:       func(s *Set) *bool { return &s.ModifyMaintenance },
	PermModifyEquipmentProfiles: func(s *Set) *bool { return &s.ModifyEquipmentProfiles },
	PermModifyDepartments:       func(s *Set) *bool { return &s.ModifyDepartments },
	PermModifyUsers:             func(s *Set) *bool { return &s.ModifyUsers },
	PermModifyAssignments:       func(s *Set) *bool { return &s.ModifyAssignments },
}

// Grant sets the given flags.
func (s *Set) Grant(perms ...Permission) {
	for _, p := range perms {
		if flag, ok := setFlags[p]; ok {
			*flag(s) = true
		}
	}
}

// Stored returns the raw stored flag without the root override.
func (s Set) Stored(p Permission) bool {
	flag, ok := setFlags[p]
	if !ok {
		return false
	}
	return *flag(&s)
}

// Has evaluates a flag at read time. AccessAll implies every flag
// regardless of the stored child values.
func (s Set) Has(p Permission) bool {
	if s.AccessAll {
		return true
	}
	return s.Stored(p)
}

// HasName evaluates a flag by registry name; unknown names are false.
func (s Set) HasName(name string) bool {
	p, ok := Parse(name)
	if !ok {
		return false
	}
	return s.Has(p)
}

// Normalized returns a copy with the AccessAll denormalization applied:
// when the root flag is set, every child flag is forced true. Used before
// persisting so the stored row matches what bulk-edit screens display.
func (s Set) Normalized() Set {
	if !s.AccessAll {
		return s
	}
	out := s
	for _, flag := range setFlags {
		*flag(&out) = true
	}
	return out
}

// Names lists the registry names that evaluate true for this set.
func (s Set) Names() []string {
	var names []string
	for p := range permissionNames {
		if s.Has(Permission(p)) {
			names = append(names, permissionNames[p])
		}
	}
	return names
}
