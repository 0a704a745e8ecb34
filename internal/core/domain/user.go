package domain

import "regexp"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var dniPattern = regexp.MustCompile(`^[0-9]{7,8}$`)

// User models an authenticated actor as the backend reports it.
type User struct {
	ID             int64  `json:"id"`
	DNI            string `json:"dni"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidDNI reports whether s is a 7 or 8 digit national ID number.
func ValidDNI(s string) bool {
	return dniPattern.MatchString(s)
}

// NormalizeRole maps backend role spellings onto RoleAdmin / RoleUser.
func NormalizeRole(role string) string {
	switch role {
	case "admin", "administrador", "ADMIN":
		return RoleAdmin
	default:
		return RoleUser
	}
}
