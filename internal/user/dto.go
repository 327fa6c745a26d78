package user

type ListFilter struct {
	Type   string
	Status string
	Limit  int
	Offset int
}

// CreateUserDTO adds a team member or a client login to the actor's company.
type CreateUserDTO struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
	Type     string  `json:"type"`
}

type UpdateUserDTO struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty"`
}
