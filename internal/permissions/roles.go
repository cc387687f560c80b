package permissions

import "strings"

// Role names recognized by the account-creation policy. The role column is
// free-form; anything outside this list derives an empty permission set.
const (
	RoleAdministrator = "administrator"
	RoleTechnician    = "technician"
	RoleUser          = "user"
	RoleAuditor       = "auditor"
)

// DeriveForRole maps a role name to the permission set seeded at account
// creation. Matching is case-insensitive and ignores surrounding whitespace.
//
// TODO: changing a user's role later does not re-derive permissions; an
// admin has to adjust the flags by hand until that is wired up.
func DeriveForRole(role string) Set {
	var s Set

	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdministrator:
		s.Grant(PermAccessAll)
	case RoleTechnician:
		s.Grant(
			PermViewEmployees,
			PermViewUsers,
			PermViewReports,
			PermModifyAssets,
			PermModifyMaintenance,
			PermModifyEquipmentProfiles,
			PermModifyDepartments,
		)
	case RoleUser:
		s.Grant(
			PermViewReports,
			PermModifyAssets,
			PermModifyMaintenance,
		)
	case RoleAuditor:
		s.Grant(PermViewReports)
	}

	return s.Normalized()
}
