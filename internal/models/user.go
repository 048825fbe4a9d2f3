package models

// Role enumerates portal account roles.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleDean       Role = "dean"
)

// Valid reports whether the role is one of the known portal roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleDean:
		return true
	}
	return false
}

// User is a login account. UserID references the owning Student or Instructor
// profile (deans have no profile).
type User struct {
	UID          string `bson:"u_id" json:"u_id"`
	UserID       string `bson:"user_id" json:"user_id"`
	PasswordHash string `bson:"password" json:"-"`
	Role         Role   `bson:"role" json:"role"`
}
