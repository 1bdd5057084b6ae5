package models

import "time"

// User is a platform (end-user) account.
type User struct {
	DateJoined  *time.Time `json:"date_joined,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	ID          ID         `json:"id"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	UserType    string     `json:"user_type,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
}

// Key returns the primary key used to patch list rows.
func (u User) Key() string { return string(u.ID) }

// UserUpdate is a partial update. Nil fields are not sent.
type UserUpdate struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsVerified  *bool   `json:"is_verified,omitempty"`
}

// UserFilters are the query parameters of the user list.
type UserFilters struct {
	IsActive   *bool  `query:"is_active"`
	IsVerified *bool  `query:"is_verified"`
	Search     string `query:"search"`
	UserType   string `query:"user_type"`
	Ordering   string `query:"ordering"`
	Page       int    `query:"page,omitempty"`
	PageSize   int    `query:"page_size,omitempty"`
}

func (f UserFilters) WithPage(page int) UserFilters { f.Page = page; return f }
func (f UserFilters) CurrentPage() int              { return f.Page }

// Admin is a dashboard operator account.
type Admin struct {
	LastLogin   *time.Time `json:"last_login,omitempty"`
	ID          ID         `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	Role        string     `json:"role,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
}

// Key returns the primary key used to patch list rows.
func (a Admin) Key() string { return string(a.ID) }

// AdminCreate invites a new administrator. The invitee sets the password
// through the set-password flow when Password is empty.
type AdminCreate struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
	Password  string `json:"password,omitempty"`
}

// AdminUpdate is a partial update.
type AdminUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// AdminFilters are the query parameters of the admin list.
type AdminFilters struct {
	IsActive *bool  `query:"is_active"`
	Search   string `query:"search"`
	Role     string `query:"role"`
	Page     int    `query:"page,omitempty"`
	PageSize int    `query:"page_size,omitempty"`
}

func (f AdminFilters) WithPage(page int) AdminFilters { f.Page = page; return f }
func (f AdminFilters) CurrentPage() int               { return f.Page }
