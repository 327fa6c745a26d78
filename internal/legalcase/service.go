package legalcase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	"github.com/frahmantamala/legal-practice/internal/core/events"
	"github.com/frahmantamala/legal-practice/internal/policy"
)

// RepositoryAPI is the persistence surface for cases.
type RepositoryAPI interface {
	List(ctx context.Context, scope policy.Scope, filter ListFilter) ([]*Case, int64, error)
	GetByID(ctx context.Context, id int64) (*Case, error)
	Create(ctx context.Context, c *Case) error
	Update(ctx context.Context, c *Case) error
	Delete(ctx context.Context, id int64) error
	ReplaceTeam(ctx context.Context, caseID int64, userIDs []int64) error
	GetClient(ctx context.Context, clientID int64) (*ClientRef, error)
}

// CompanyDirectory lists the users that belong to a company owner.
type CompanyDirectory interface {
	CompanyAndUserIDs(ctx context.Context, ownerID int64) ([]int64, error)
}

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Case, int64, error)
	Get(ctx context.Context, id int64) (*Case, error)
	Create(ctx context.Context, dto CreateCaseDTO) (*Case, error)
	Update(ctx context.Context, id int64, dto UpdateCaseDTO) (*Case, error)
	Delete(ctx context.Context, id int64) error
	SyncTeam(ctx context.Context, id int64, dto SyncTeamDTO) (*Case, error)
}

type Service struct {
	repo      RepositoryAPI
	directory CompanyDirectory
	events    events.Publisher
	policy    Policy
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, directory CompanyDirectory, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		events:    publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Case, int64, error) {
	scope := policy.ListScope(access.FromContext(ctx), access.ResourceCases)
	cases, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list cases", err)
	}
	return cases, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Case, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.View(ctx, c) {
		return nil, internal.ErrForbidden()
	}
	return c, nil
}

// Create files the case under the actor's company. A team member who opens a case joins its team.
func (s *Service) Create(ctx context.Context, dto CreateCaseDTO) (*Case, error) {
	rc := access.FromContext(ctx)
	if rc == nil || !rc.Actor.HasTenant() {
		return nil, internal.ErrTenantRequired()
	}
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return nil, appErr
	}

	c := &Case{
		TenantID:    rc.Actor.TenantID,
		CreatedBy:   rc.Actor.OwnerID,
		Title:       dto.Title,
		CaseNumber:  dto.CaseNumber,
		Status:      dto.Status,
		Description: dto.Description,
	}
	if c.Status == "" {
		c.Status = StatusOpen
	}

	if dto.ClientID != nil {
		client, err := s.clientInTenant(ctx, *dto.ClientID, c.TenantID)
		if err != nil {
			return nil, err
		}
		c.ClientID = &client.ID
		c.Client = client
	}

	team := dedupe(dto.TeamMemberIDs)
	if rc.Actor.Kind == access.ActorTeamMember && !contains(team, rc.Actor.UserID) {
		team = append(team, rc.Actor.UserID)
	}
	if err := s.checkTeam(ctx, c.CreatedBy, team); err != nil {
		return nil, err
	}
	c.TeamMemberIDs = team

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "failed to create case", "error", err, "user_id", rc.Actor.UserID)
		return nil, internal.NewInternalError("failed to create case", err)
	}

	s.logger.InfoContext(ctx, "case created", "case_id", c.ID, "tenant_id", *c.TenantID, "user_id", rc.Actor.UserID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCaseDTO) (*Case, error) {
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return nil, appErr
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Update(ctx, c) {
		return nil, internal.ErrForbidden()
	}

	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.CaseNumber != nil {
		c.CaseNumber = *dto.CaseNumber
	}
	if dto.Status != nil {
		c.Status = *dto.Status
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.ClientID != nil {
		client, err := s.clientInTenant(ctx, *dto.ClientID, c.TenantID)
		if err != nil {
			return nil, err
		}
		c.ClientID = &client.ID
		c.Client = client
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, internal.NewInternalError("failed to update case", err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.Delete(ctx, c) {
		return internal.ErrForbidden()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete case", err)
	}
	s.logger.InfoContext(ctx, "case deleted", "case_id", id)
	return nil
}

// SyncTeam replaces the case team. Every member must belong to the company that owns the case.
func (s *Service) SyncTeam(ctx context.Context, id int64, dto SyncTeamDTO) (*Case, error) {
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		return nil, appErr
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Update(ctx, c) {
		return nil, internal.ErrForbidden()
	}

	team := dedupe(dto.UserIDs)
	if err := s.checkTeam(ctx, c.CreatedBy, team); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceTeam(ctx, c.ID, team); err != nil {
		return nil, internal.NewInternalError("failed to update case team", err)
	}
	c.TeamMemberIDs = team

	actorID := int64(0)
	if rc := access.FromContext(ctx); rc != nil {
		actorID = rc.Actor.UserID
	}
	_ = s.events.Publish(ctx, events.NewCaseTeamChangedEvent(c.ID, team, actorID))
	return c, nil
}

func (s *Service) load(ctx context.Context, id int64) (*Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCaseNotFound) {
			return nil, internal.NewNotFoundError("Case not found", internal.ErrCodeCaseNotFound)
		}
		return nil, internal.NewInternalError("failed to load case", err)
	}
	return c, nil
}

func (s *Service) clientInTenant(ctx context.Context, clientID int64, tenantID *int64) (*ClientRef, error) {
	client, err := s.repo.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, internal.NewValidationFieldError("client_id", "client does not exist", internal.ErrCodeInvalidValue)
		}
		return nil, internal.NewInternalError("failed to load client", err)
	}
	if tenantID == nil || client.TenantID == nil || *client.TenantID != *tenantID {
		return nil, internal.NewValidationFieldError("client_id", "client does not exist", internal.ErrCodeInvalidValue)
	}
	return client, nil
}

func (s *Service) checkTeam(ctx context.Context, ownerID int64, team []int64) error {
	if len(team) == 0 {
		return nil
	}
	members, err := s.directory.CompanyAndUserIDs(ctx, ownerID)
	if err != nil {
		return internal.NewInternalError("failed to load company members", err)
	}
	for _, id := range team {
		if id == ownerID || !contains(members, id) {
			return internal.NewValidationFieldError("team_member_ids",
				fmt.Sprintf("user %d is not a team member of this company", id), internal.ErrCodeInvalidValue)
		}
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
