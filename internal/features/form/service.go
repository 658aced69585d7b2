package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	common_models "chums-admin/internal/common/models"
	"chums-admin/internal/features/audit"
	"chums-admin/pkg/editpanel"
	"chums-admin/pkg/orderedlist"
	"chums-admin/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const deleteQuestionPrompt = "Are you sure you wish to permanently delete this question?"

type FormService interface {
	Page(ctx context.Context, formID string) (*FormPage, error)
	Questions(ctx context.Context, formID string) (*QuestionList, error)
	Reorder(ctx context.Context, formID string, req ReorderRequest) (*QuestionList, error)
	NewQuestion(ctx context.Context, formID string) QuestionEditor
	EditQuestion(ctx context.Context, id string) (QuestionEditor, error)
	SaveQuestion(ctx context.Context, formID string, question Question) (QuestionEditor, *QuestionList, error)
	DeleteQuestion(ctx context.Context, id string, confirmed bool) (*QuestionList, error)
	EditChoices(req ChoiceRequest) (QuestionEditor, error)
}

type FormServiceImpl struct {
	Repo         FormRepository
	AuditService audit.AuditService
	logger       *zap.Logger
}

func NewFormService(repo FormRepository, auditService audit.AuditService, logger *zap.Logger) FormService {
	return &FormServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		logger:       logger,
	}
}

func (s *FormServiceImpl) Page(ctx context.Context, formID string) (*FormPage, error) {
	page := &FormPage{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		form, err := s.Repo.GetForm(gctx, formID)
		if err != nil {
			return fmt.Errorf("load form %s: %w", formID, err)
		}
		page.Form = form
		return nil
	})
	g.Go(func() error {
		list, err := s.Questions(gctx, formID)
		if err != nil {
			return err
		}
		page.Questions = *list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *FormServiceImpl) Questions(ctx context.Context, formID string) (*QuestionList, error) {
	questions, err := s.Repo.ListQuestions(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load questions for form %s: %w", formID, err)
	}
	return listView(s.orderedList(ctx, questions)), nil
}

// Reorder applies one move to the caller's order and returns the new order
// without waiting for the remote sort command. A failed command is logged and
// audited; the local order is not rolled back. With Reconcile set, the
// response carries the server's order after the command finished.
func (s *FormServiceImpl) Reorder(ctx context.Context, formID string, req ReorderRequest) (*QuestionList, error) {
	dir, err := orderedlist.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	questions := req.Questions
	if len(questions) == 0 {
		questions, err = s.Repo.ListQuestions(ctx, formID)
		if err != nil {
			return nil, fmt.Errorf("load questions for form %s: %w", formID, err)
		}
	}

	list := s.orderedList(ctx, questions)
	if list.Move(ctx, req.Index, dir) {
		moved := list.Items()[req.Index+offset(dir)]
		if err := s.AuditService.LogChange(ctx, common_models.AuditActionReorder, audit.ModuleQuestions, moved.ID, map[string]common_models.Change{
			"position": {Old: req.Index, New: req.Index + offset(dir)},
		}); err != nil {
			s.logger.Warn("audit log failed", zap.String("module", audit.ModuleQuestions), zap.Error(err))
		}
	}

	if req.Reconcile {
		err := list.Reconcile(ctx, func(ctx context.Context) ([]Question, error) {
			return s.Repo.ListQuestions(ctx, formID)
		})
		if err != nil {
			s.logger.Warn("question order reconcile failed", zap.String("form_id", formID), zap.Error(err))
		}
	}
	return listView(list), nil
}

func (s *FormServiceImpl) NewQuestion(ctx context.Context, formID string) QuestionEditor {
	p := s.panel(formID)
	_ = p.Open(ctx, editpanel.Creating())
	return editorView(p)
}

func (s *FormServiceImpl) EditQuestion(ctx context.Context, id string) (QuestionEditor, error) {
	p := s.panel("")
	err := p.Open(ctx, editpanel.Editing(id))
	return editorView(p), err
}

// SaveQuestion submits question and returns the reloaded question list.
// Validation failures return editpanel.ErrValidation with the editor view.
func (s *FormServiceImpl) SaveQuestion(ctx context.Context, formID string, question Question) (QuestionEditor, *QuestionList, error) {
	if question.FormID == "" {
		question.FormID = formID
	}

	p := s.panel(formID)
	target := editpanel.TargetFor(question.ID, utils.IsMissingID)
	p.Resume(target, question)

	if _, err := p.Save(ctx); err != nil {
		if !errors.Is(err, editpanel.ErrValidation) {
			s.AuditService.LogFailure(ctx, audit.ModuleQuestions, question.ID, err)
		}
		return editorView(p), nil, err
	}

	action := common_models.AuditActionUpdate
	if target.Mode == editpanel.ModeCreating {
		action = common_models.AuditActionCreate
	}
	normalizeQuestion(&question)
	if err := s.AuditService.LogChange(ctx, action, audit.ModuleQuestions, question.ID, map[string]common_models.Change{
		"question": {New: question},
	}); err != nil {
		s.logger.Warn("audit log failed", zap.String("module", audit.ModuleQuestions), zap.Error(err))
	}

	list, err := s.Questions(ctx, question.FormID)
	return editorView(p), list, err
}

// DeleteQuestion loads the question to learn its form, deletes it once
// confirmed, and returns that form's reloaded question list.
func (s *FormServiceImpl) DeleteQuestion(ctx context.Context, id string, confirmed bool) (*QuestionList, error) {
	if !confirmed {
		return nil, editpanel.ErrNotConfirmed
	}

	p := s.panel("")
	if err := p.Open(ctx, editpanel.Editing(id)); err != nil {
		return nil, err
	}
	formID := p.Entity().FormID

	if _, err := p.Delete(ctx, editpanel.Confirmed(confirmed)); err != nil {
		s.AuditService.LogFailure(ctx, audit.ModuleQuestions, id, err)
		return nil, err
	}

	if err := s.AuditService.LogChange(ctx, common_models.AuditActionDelete, audit.ModuleQuestions, id, nil); err != nil {
		s.logger.Warn("audit log failed", zap.String("module", audit.ModuleQuestions), zap.Error(err))
	}
	return s.Questions(ctx, formID)
}

// EditChoices adds or removes a choice on a draft. Nothing is sent remotely.
func (s *FormServiceImpl) EditChoices(req ChoiceRequest) (QuestionEditor, error) {
	q := req.Question
	var err error
	if req.Remove != nil {
		err = q.RemoveChoice(*req.Remove)
	} else {
		err = q.AddChoice(req.Text, req.Value)
	}

	p := s.panel(q.FormID)
	p.Resume(editpanel.TargetFor(q.ID, utils.IsMissingID), q)
	return editorView(p), err
}

func (s *FormServiceImpl) orderedList(ctx context.Context, questions []Question) *orderedlist.List[Question] {
	// Failures surface after the request has returned.
	failCtx := context.WithoutCancel(ctx)
	return orderedlist.New(questions,
		func(q Question) string { return q.ID },
		orderedlist.MoverFunc(s.Repo.SortQuestion),
		orderedlist.WithFailureHandler(func(f orderedlist.Failure) {
			s.logger.Warn("question sort failed",
				zap.String("question_id", f.ID),
				zap.String("direction", string(f.Direction)),
				zap.Error(f.Err),
			)
			s.AuditService.LogFailure(failCtx, audit.ModuleQuestions, f.ID, f.Err)
		}),
	)
}

func (s *FormServiceImpl) panel(formID string) *editpanel.Panel[Question] {
	return editpanel.New[Question](questionStore{repo: s.Repo}, editpanel.Behavior[Question]{
		New: func() Question {
			return Question{FormID: formID, FieldType: FieldTypeTextbox}
		},
		Validate:  validateQuestion,
		Normalize: normalizeQuestion,
	}, deleteQuestionPrompt)
}

func validateQuestion(q *Question) []string {
	var errs []string
	if strings.TrimSpace(q.Title) == "" {
		errs = append(errs, "Please enter Title")
		q.Title = ""
	}
	if !q.FieldType.Valid() {
		errs = append(errs, "Please select a question type")
		q.FieldType = ""
	}
	return errs
}

func normalizeQuestion(q *Question) {
	q.Title = strings.TrimSpace(q.Title)
	q.Description = strings.TrimSpace(q.Description)
	q.Placeholder = strings.TrimSpace(q.Placeholder)
}

func offset(dir orderedlist.Direction) int {
	if dir == orderedlist.Up {
		return -1
	}
	return 1
}

func listView(list *orderedlist.List[Question]) *QuestionList {
	view := &QuestionList{
		Rows:      []QuestionRow{},
		Questions: list.Items(),
	}
	if view.Questions == nil {
		view.Questions = []Question{}
	}
	for _, r := range list.Rows() {
		view.Rows = append(view.Rows, QuestionRow{
			Index:       r.Index,
			ID:          r.Item.ID,
			Title:       r.Item.Title,
			FieldType:   r.Item.FieldType,
			CanMoveUp:   r.CanMoveUp,
			CanMoveDown: r.CanMoveDown,
		})
	}
	if len(view.Rows) == 0 {
		view.Placeholder = EmptyQuestionsMessage
	}
	for _, f := range list.Failures() {
		view.Failures = append(view.Failures, ReorderFailure{ID: f.ID, Direction: string(f.Direction), Error: f.Err.Error()})
	}
	return view
}

func editorView(p *editpanel.Panel[Question]) QuestionEditor {
	view := p.View()
	return QuestionEditor{
		View:       view,
		SubEditor:  view.Entity.SubEditor(),
		FieldTypes: FieldTypes,
	}
}

// questionStore submits saves as a one-element batch.
type questionStore struct {
	repo FormRepository
}

func (q questionStore) Load(ctx context.Context, id string) (Question, error) {
	return q.repo.GetQuestion(ctx, id)
}

func (q questionStore) Save(ctx context.Context, question Question) error {
	_, err := q.repo.SaveQuestions(ctx, []Question{question})
	return err
}

func (q questionStore) Delete(ctx context.Context, id string) error {
	return q.repo.DeleteQuestion(ctx, id)
}
