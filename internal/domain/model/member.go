package model

// Role is the staff role a member is scored under.
type Role string

// Known roles. The string values match the stored catalogs.
const (
	RoleSales          Role = "Sales"
	RoleAccountManager Role = "Account Manager"
)

// Roles lists the known roles in leaderboard order.
var Roles = []Role{RoleSales, RoleAccountManager}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSales || r == RoleAccountManager
}

// Member is a scored staff member. Name is the key events are attributed by.
type Member struct {
	ID     ID     `json:"id"`
	Name   string `json:"name" validate:"required"`
	Role   Role   `json:"role" validate:"role"`
	Region string `json:"region"`
	BU     string `json:"bu"`
}

// FindMember returns the first member named name.
func FindMember(members []Member, name string) (Member, bool) {
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
