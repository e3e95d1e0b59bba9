package model

// Role tags an authenticated account. Roles are assigned by the identity
// provider at registration and never change afterwards.
type Role string

const (
	RoleStudent     Role = "student"
	RoleHostelOwner Role = "hostelOwner"
	RoleMessOwner   Role = "messOwner"
	RoleGymOwner    Role = "gymOwner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleHostelOwner, RoleMessOwner, RoleGymOwner:
		return true
	}
	return false
}

func (r Role) IsOwner() bool {
	switch r {
	case RoleHostelOwner, RoleMessOwner, RoleGymOwner:
		return true
	}
	return false
}

// OwnerRoleFor returns the owner role that may manage listings of the
// given service type.
func OwnerRoleFor(t ServiceType) Role {
	switch t {
	case ServiceHostel:
		return RoleHostelOwner
	case ServiceMess:
		return RoleMessOwner
	case ServiceGym:
		return RoleGymOwner
	}
	return ""
}
