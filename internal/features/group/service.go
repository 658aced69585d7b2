package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	common_models "chums-admin/internal/common/models"
	"chums-admin/internal/features/audit"
	"chums-admin/internal/features/report"
	"chums-admin/internal/middleware"
	"chums-admin/pkg/editpanel"
	"chums-admin/pkg/utils"

	"go.uber.org/zap"
)

const deleteGroupPrompt = "Are you sure you wish to permanently delete this group?"

type GroupService interface {
	Page(ctx context.Context) (*GroupsPage, error)
	NewGroup(ctx context.Context) GroupEditor
	EditGroup(ctx context.Context, id string) (GroupEditor, error)
	SaveGroup(ctx context.Context, group Group) (GroupEditor, *GroupsPage, error)
	DeleteGroup(ctx context.Context, id string, confirmed bool) (*GroupsPage, error)
	ExportGroups(ctx context.Context, format string) (*report.ExportFile, error)
}

type GroupServiceImpl struct {
	Repo         GroupRepository
	AuditService audit.AuditService
	logger       *zap.Logger
}

func NewGroupService(repo GroupRepository, auditService audit.AuditService, logger *zap.Logger) GroupService {
	return &GroupServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		logger:       logger,
	}
}

func (s *GroupServiceImpl) Page(ctx context.Context) (*GroupsPage, error) {
	groups, err := s.Repo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	return &GroupsPage{
		Rows:    Rows(groups),
		CanEdit: utils.ClaimsFromContext(ctx).HasPermission(middleware.PermGroupsEdit),
	}, nil
}

func (s *GroupServiceImpl) NewGroup(ctx context.Context) GroupEditor {
	p := s.panel()
	_ = p.Open(ctx, editpanel.Creating())
	return p.View()
}

func (s *GroupServiceImpl) EditGroup(ctx context.Context, id string) (GroupEditor, error) {
	p := s.panel()
	err := p.Open(ctx, editpanel.Editing(id))
	return p.View(), err
}

// SaveGroup submits group and returns the reloaded groups page.
func (s *GroupServiceImpl) SaveGroup(ctx context.Context, group Group) (GroupEditor, *GroupsPage, error) {
	p := s.panel()
	target := editpanel.TargetFor(group.ID, utils.IsMissingID)
	p.Resume(target, group)

	if _, err := p.Save(ctx); err != nil {
		if !errors.Is(err, editpanel.ErrValidation) {
			s.AuditService.LogFailure(ctx, audit.ModuleGroups, group.ID, err)
		}
		return p.View(), nil, err
	}

	action := common_models.AuditActionUpdate
	if target.Mode == editpanel.ModeCreating {
		action = common_models.AuditActionCreate
	}
	normalizeGroup(&group)
	if err := s.AuditService.LogChange(ctx, action, audit.ModuleGroups, group.ID, map[string]common_models.Change{
		"group": {New: group},
	}); err != nil {
		s.logger.Warn("audit log failed", zap.String("module", audit.ModuleGroups), zap.Error(err))
	}

	page, err := s.Page(ctx)
	return p.View(), page, err
}

func (s *GroupServiceImpl) DeleteGroup(ctx context.Context, id string, confirmed bool) (*GroupsPage, error) {
	p := s.panel()
	p.Resume(editpanel.Editing(id), Group{ID: id})

	if _, err := p.Delete(ctx, editpanel.Confirmed(confirmed)); err != nil {
		if !errors.Is(err, editpanel.ErrNotConfirmed) {
			s.AuditService.LogFailure(ctx, audit.ModuleGroups, id, err)
		}
		return nil, err
	}

	if err := s.AuditService.LogChange(ctx, common_models.AuditActionDelete, audit.ModuleGroups, id, nil); err != nil {
		s.logger.Warn("audit log failed", zap.String("module", audit.ModuleGroups), zap.Error(err))
	}
	return s.Page(ctx)
}

func (s *GroupServiceImpl) ExportGroups(ctx context.Context, format string) (*report.ExportFile, error) {
	groups, err := s.Repo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	table := report.Table{
		Title: "Groups",
		Columns: []report.Heading{
			{Name: "Id", Field: "id"},
			{Name: "Category", Field: "categoryName"},
			{Name: "Name", Field: "name"},
			{Name: "People", Field: "memberCount"},
		},
	}
	for _, g := range groups {
		table.Rows = append(table.Rows, report.Row{
			"id":           g.ID,
			"categoryName": g.CategoryName,
			"name":         g.Name,
			"memberCount":  g.MemberCount,
		})
	}
	return report.Export(table, format)
}

func (s *GroupServiceImpl) panel() *editpanel.Panel[Group] {
	return editpanel.New[Group](groupStore{repo: s.Repo}, editpanel.Behavior[Group]{
		New:       func() Group { return Group{} },
		Validate:  validateGroup,
		Normalize: normalizeGroup,
	}, deleteGroupPrompt)
}

func validateGroup(g *Group) []string {
	var errs []string
	if strings.TrimSpace(g.CategoryName) == "" {
		errs = append(errs, "Please enter a category name")
		g.CategoryName = ""
	}
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, "Please enter a group name")
		g.Name = ""
	}
	return errs
}

func normalizeGroup(g *Group) {
	g.CategoryName = strings.TrimSpace(g.CategoryName)
	g.Name = strings.TrimSpace(g.Name)
}

// groupStore submits saves as a one-element batch.
type groupStore struct {
	repo GroupRepository
}

func (g groupStore) Load(ctx context.Context, id string) (Group, error) {
	return g.repo.GetGroup(ctx, id)
}

func (g groupStore) Save(ctx context.Context, group Group) error {
	_, err := g.repo.SaveGroups(ctx, []Group{group})
	return err
}

func (g groupStore) Delete(ctx context.Context, id string) error {
	return g.repo.DeleteGroup(ctx, id)
}
