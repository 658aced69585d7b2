package form

import (
	"context"
	"net/url"

	"chums-admin/internal/apiclient"
	"chums-admin/internal/config"
	"chums-admin/pkg/orderedlist"
)

// FormRepository reads and writes forms and questions on the remote MembershipApi.
type FormRepository interface {
	GetForm(ctx context.Context, id string) (Form, error)
	ListQuestions(ctx context.Context, formID string) ([]Question, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
	SaveQuestions(ctx context.Context, questions []Question) ([]Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	SortQuestion(ctx context.Context, id string, dir orderedlist.Direction) error
}

type FormRepositoryImpl struct {
	client apiclient.Client
}

func NewFormRepository(client apiclient.Client) FormRepository {
	return &FormRepositoryImpl{client: client}
}

func (r *FormRepositoryImpl) GetForm(ctx context.Context, id string) (Form, error) {
	var form Form
	err := r.client.Get(ctx, config.MembershipApi, "/forms/"+url.PathEscape(id), &form)
	return form, err
}

func (r *FormRepositoryImpl) ListQuestions(ctx context.Context, formID string) ([]Question, error) {
	var questions []Question
	err := r.client.Get(ctx, config.MembershipApi, "/questions?formId="+url.QueryEscape(formID), &questions)
	return questions, err
}

func (r *FormRepositoryImpl) GetQuestion(ctx context.Context, id string) (Question, error) {
	var question Question
	err := r.client.Get(ctx, config.MembershipApi, "/questions/"+url.PathEscape(id), &question)
	return question, err
}

// SaveQuestions creates questions without an id and updates the rest.
func (r *FormRepositoryImpl) SaveQuestions(ctx context.Context, questions []Question) ([]Question, error) {
	var saved []Question
	err := r.client.Post(ctx, config.MembershipApi, "/questions", questions, &saved)
	return saved, err
}

func (r *FormRepositoryImpl) DeleteQuestion(ctx context.Context, id string) error {
	return r.client.Delete(ctx, config.MembershipApi, "/questions/"+url.PathEscape(id))
}

// SortQuestion swaps the question with its neighbour on the server. The
// response body is ignored.
func (r *FormRepositoryImpl) SortQuestion(ctx context.Context, id string, dir orderedlist.Direction) error {
	return r.client.Get(ctx, config.MembershipApi, "/questions/sort/"+url.PathEscape(id)+"/"+string(dir), nil)
}
