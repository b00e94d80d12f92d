package handler

import "github.com/msomdec/gatekeep/internal/domain"

// UserDTO is the JSON view of a user returned by signin and /me. It
// deliberately omits the id and the password hash.
type UserDTO struct {
	Username    string `json:"username"`
	Usersurname string `json:"usersurname"`
	Role        string `json:"role"`
	Email       string `json:"email"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		Username:    u.Name,
		Usersurname: u.Surname,
		Role:        u.Role,
		Email:       u.Email,
	}
}
