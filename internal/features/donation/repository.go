package donation

import (
	"context"
	"net/url"
	"time"

	"chums-admin/internal/apiclient"
	"chums-admin/internal/config"
	"chums-admin/pkg/utils"
)

// DonationRepository reads and writes giving data on the remote GivingApi.
type DonationRepository interface {
	Summary(ctx context.Context, startDate, endDate time.Time) ([]DonationSummary, error)
	ListBatches(ctx context.Context) ([]DonationBatch, error)
	GetBatch(ctx context.Context, id string) (DonationBatch, error)
	SaveBatches(ctx context.Context, batches []DonationBatch) ([]DonationBatch, error)
	DeleteBatch(ctx context.Context, id string) error
	ListFunds(ctx context.Context) ([]Fund, error)
}

type DonationRepositoryImpl struct {
	client apiclient.Client
}

func NewDonationRepository(client apiclient.Client) DonationRepository {
	return &DonationRepositoryImpl{client: client}
}

func (r *DonationRepositoryImpl) Summary(ctx context.Context, startDate, endDate time.Time) ([]DonationSummary, error) {
	path := "/donations/summary?startDate=" + utils.FormatHtml5Date(startDate) + "&endDate=" + utils.FormatHtml5Date(endDate)

	var summary []DonationSummary
	err := r.client.Get(ctx, config.GivingApi, path, &summary)
	return summary, err
}

func (r *DonationRepositoryImpl) ListBatches(ctx context.Context) ([]DonationBatch, error) {
	var batches []DonationBatch
	err := r.client.Get(ctx, config.GivingApi, "/donationbatches", &batches)
	return batches, err
}

func (r *DonationRepositoryImpl) GetBatch(ctx context.Context, id string) (DonationBatch, error) {
	var batch DonationBatch
	err := r.client.Get(ctx, config.GivingApi, "/donationbatches/"+url.PathEscape(id), &batch)
	return batch, err
}

// SaveBatches creates batches without an id and updates the rest.
func (r *DonationRepositoryImpl) SaveBatches(ctx context.Context, batches []DonationBatch) ([]DonationBatch, error) {
	var saved []DonationBatch
	err := r.client.Post(ctx, config.GivingApi, "/donationbatches", batches, &saved)
	return saved, err
}

func (r *DonationRepositoryImpl) DeleteBatch(ctx context.Context, id string) error {
	return r.client.Delete(ctx, config.GivingApi, "/donationbatches/"+url.PathEscape(id))
}

func (r *DonationRepositoryImpl) ListFunds(ctx context.Context) ([]Fund, error) {
	var funds []Fund
	err := r.client.Get(ctx, config.GivingApi, "/funds", &funds)
	return funds, err
}
