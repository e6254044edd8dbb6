package models

// Role is a backoffice or reader role.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditorial  Role = "editorial"
	RoleJournalist Role = "journalist"
	RoleReader     Role = "reader"
)

// Roles lists every assignable role.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditorial, RoleJournalist, RoleReader}

// User is an account as returned by the API.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Active reports the active flag, defaulting to true when omitted.
func (u User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// UserPayload is the body for create and update calls. Password is sent only
// when set.
type UserPayload struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Credentials is the login and registration body.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthSession is the login and registration response.
type AuthSession struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// ProfileUpdate edits the signed-in user's own profile.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// PasswordChangePayload is the body of the change-password call.
type PasswordChangePayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
