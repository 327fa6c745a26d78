package client

type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

type CreateClientDTO struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type UpdateClientDTO struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
