package legalcase

// ListFilter narrows a case listing on top of the actor's visibility scope.
type ListFilter struct {
	Status   string
	ClientID int64
	Limit    int
	Offset   int
}

type CreateCaseDTO struct {
	Title         string  `json:"title" validate:"required,max=255"`
	CaseNumber    string  `json:"case_number,omitempty" validate:"max=64"`
	ClientID      *int64  `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	Status        string  `json:"status,omitempty" validate:"omitempty,oneof=open pending closed"`
	Description   string  `json:"description,omitempty" validate:"max=5000"`
	TeamMemberIDs []int64 `json:"team_member_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

// UpdateCaseDTO is a partial update; nil fields are left alone.
type UpdateCaseDTO struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	CaseNumber  *string `json:"case_number,omitempty" validate:"omitempty,max=64"`
	ClientID    *int64  `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=open pending closed"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

type SyncTeamDTO struct {
	UserIDs []int64 `json:"user_ids" validate:"dive,gt=0"`
}
