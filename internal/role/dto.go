package role

type CreateRoleDTO struct {
	Name        string   `json:"name" validate:"required,max=64"`
	Label       string   `json:"label,omitempty" validate:"max=255"`
	Description string   `json:"description,omitempty" validate:"max=1000"`
	Permissions []string `json:"permissions,omitempty"`
}

type SyncPermissionsDTO struct {
	Permissions []string `json:"permissions"`
}

type AssignRoleDTO struct {
	RoleID int64 `json:"role_id" validate:"required,gt=0"`
}
