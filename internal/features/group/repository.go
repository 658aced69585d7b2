package group

import (
	"context"
	"net/url"

	"chums-admin/internal/apiclient"
	"chums-admin/internal/config"
)

// GroupRepository reads and writes groups on the remote MembershipApi.
type GroupRepository interface {
	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, id string) (Group, error)
	SaveGroups(ctx context.Context, groups []Group) ([]Group, error)
	DeleteGroup(ctx context.Context, id string) error
}

type GroupRepositoryImpl struct {
	client apiclient.Client
}

func NewGroupRepository(client apiclient.Client) GroupRepository {
	return &GroupRepositoryImpl{client: client}
}

func (r *GroupRepositoryImpl) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	err := r.client.Get(ctx, config.MembershipApi, "/groups", &groups)
	return groups, err
}

func (r *GroupRepositoryImpl) GetGroup(ctx context.Context, id string) (Group, error) {
	var group Group
	err := r.client.Get(ctx, config.MembershipApi, "/groups/"+url.PathEscape(id), &group)
	return group, err
}

// SaveGroups creates groups without an id and updates the rest.
func (r *GroupRepositoryImpl) SaveGroups(ctx context.Context, groups []Group) ([]Group, error) {
	var saved []Group
	err := r.client.Post(ctx, config.MembershipApi, "/groups", groups, &saved)
	return saved, err
}

func (r *GroupRepositoryImpl) DeleteGroup(ctx context.Context, id string) error {
	return r.client.Delete(ctx, config.MembershipApi, "/groups/"+url.PathEscape(id))
}
