package models

// Roles a user can hold.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is created on first sign-in and identified by email.
type User struct {
	ID    ID     `bson:"_id,omitempty" json:"_id"   gorm:"primaryKey;size:24"`
	Name  string `bson:"name"          json:"name"  gorm:"size:255"`
	Email string `bson:"email"         json:"email" gorm:"size:255;not null;uniqueIndex" validate:"required"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty" gorm:"size:1024"`
	Role  string `bson:"role"          json:"role"  gorm:"size:20;not null;default:member"`
}

// IsAdmin reports whether the stored role grants admin access.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
