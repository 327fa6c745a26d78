package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRoleCreated           = "role.created"
	EventTypeRolePermissionsSynced = "role.permissions_synced"
	EventTypeRoleAssigned          = "role.assigned"
	EventTypeUserCreated           = "user.created"
	EventTypeCaseTeamChanged       = "case.team_changed"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type RoleCreatedEvent struct {
	BaseEvent
	RoleID    int64  `json:"role_id"`
	Name      string `json:"name"`
	CreatedBy int64  `json:"created_by"`
	ActorID   int64  `json:"actor_id"`
}

func NewRoleCreatedEvent(roleID int64, name string, createdBy, actorID int64) *RoleCreatedEvent {
	return &RoleCreatedEvent{
		BaseEvent: newBase(EventTypeRoleCreated, map[string]interface{}{
			"role_id": roleID, "name": name, "created_by": createdBy, "actor_id": actorID,
		}),
		RoleID: roleID, Name: name, CreatedBy: createdBy, ActorID: actorID,
	}
}

type RolePermissionsSyncedEvent struct {
	BaseEvent
	RoleID      int64    `json:"role_id"`
	Permissions []string `json:"permissions"`
	ActorID     int64    `json:"actor_id"`
}

func NewRolePermissionsSyncedEvent(roleID int64, permissions []string, actorID int64) *RolePermissionsSyncedEvent {
	return &RolePermissionsSyncedEvent{
		BaseEvent: newBase(EventTypeRolePermissionsSynced, map[string]interface{}{
			"role_id": roleID, "permissions": permissions, "actor_id": actorID,
		}),
		RoleID: roleID, Permissions: permissions, ActorID: actorID,
	}
}

type RoleAssignedEvent struct {
	BaseEvent
	RoleID  int64 `json:"role_id"`
	UserID  int64 `json:"user_id"`
	ActorID int64 `json:"actor_id"`
}

func NewRoleAssignedEvent(roleID, userID, actorID int64) *RoleAssignedEvent {
	return &RoleAssignedEvent{
		BaseEvent: newBase(EventTypeRoleAssigned, map[string]interface{}{
			"role_id": roleID, "user_id": userID, "actor_id": actorID,
		}),
		RoleID: roleID, UserID: userID, ActorID: actorID,
	}
}

type UserCreatedEvent struct {
	BaseEvent
	UserID    int64  `json:"user_id"`
	Type      string `json:"type"`
	CreatedBy int64  `json:"created_by"`
}

func NewUserCreatedEvent(userID int64, userType string, createdBy int64) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: newBase(EventTypeUserCreated, map[string]interface{}{
			"user_id": userID, "type": userType, "created_by": createdBy,
		}),
		UserID: userID, Type: userType, CreatedBy: createdBy,
	}
}

type CaseTeamChangedEvent struct {
	BaseEvent
	CaseID  int64   `json:"case_id"`
	UserIDs []int64 `json:"user_ids"`
	ActorID int64   `json:"actor_id"`
}

func NewCaseTeamChangedEvent(caseID int64, userIDs []int64, actorID int64) *CaseTeamChangedEvent {
	return &CaseTeamChangedEvent{
		BaseEvent: newBase(EventTypeCaseTeamChanged, map[string]interface{}{
			"case_id": caseID, "user_ids": userIDs, "actor_id": actorID,
		}),
		CaseID: caseID, UserIDs: userIDs, ActorID: actorID,
	}
}
