package model

type UserRole int8

const (
	UserRoleNone = UserRole(iota)
	UserRoleNormal
	UserRoleSuper
)

func ParseUserRole(s string) UserRole {
	switch s {
	case "normal":
		return UserRoleNormal
	case "super":
		return UserRoleSuper
	default:
		return UserRoleNone
	}
}

func (r UserRole) String() string {
	switch r {
	case UserRoleNormal:
		return "normal"
	case UserRoleSuper:
		return "super"
	default:
		return "none"
	}
}
