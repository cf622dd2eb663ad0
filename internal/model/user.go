package model

// User roles.
const (
	RoleStudent        = "student"
	RoleProfessor      = "professor"
	RoleAdministrative = "administrative"
)

// User is an account. Email is unique across users.
type User struct {
	ID           int      `json:"id"`
	Roles        []string `json:"roles"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
}

func (u User) GetID() int         { return u.ID }
func (u User) WithID(id int) User { u.ID = id; return u }
func (u User) UniqueKey() string  { return u.Email }

// HasRole reports whether the user holds any of the given roles.
func (u User) HasRole(roles ...string) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Professor projects the user onto the fields shown on a course.
func (u User) Professor() Professor {
	return Professor{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// Professor is the owner projection embedded in a FullCourse.
type Professor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// CreateUserRequest is the payload for creating a user account.
type CreateUserRequest struct {
	FirstName string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string   `json:"last_name" binding:"required,min=1,max=100"`
	Email     string   `json:"email" binding:"required,email,max=255"`
	Password  string   `json:"password" binding:"required,min=3,max=128"`
	Roles     []string `json:"roles" binding:"required,min=1,dive,oneof=student professor administrative"`
}

// LoginRequest is the payload for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}
