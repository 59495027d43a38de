package member

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// Gender gates access to gender-restricted facilities.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// GenderAccess is the facility-side restriction.
type GenderAccess string

const (
	AccessAny    GenderAccess = "any"
	AccessMale   GenderAccess = "male"
	AccessFemale GenderAccess = "female"
)

// Admits reports whether a member of the given gender may use the facility.
func (a GenderAccess) Admits(g Gender) bool {
	switch a {
	case AccessAny, "":
		return true
	case AccessMale:
		return g == GenderMale
	case AccessFemale:
		return g == GenderFemale
	default:
		return false
	}
}
