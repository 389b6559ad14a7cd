package domain

type User struct {
	ID       int64
	Email    string
	Name     string
	Phone    string
	Role     string
	IsActive bool
}

func (u User) IsAdmin() bool { return u.Role == "admin" }
