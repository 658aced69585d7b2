package attendance

import (
	"context"
	"net/url"

	"chums-admin/internal/apiclient"
	"chums-admin/internal/config"
)

type AttendanceRepository interface {
	ListRecords(ctx context.Context, personID string) ([]AttendanceRecord, error)
}

type AttendanceRepositoryImpl struct {
	client apiclient.Client
}

func NewAttendanceRepository(client apiclient.Client) AttendanceRepository {
	return &AttendanceRepositoryImpl{client: client}
}

func (r *AttendanceRepositoryImpl) ListRecords(ctx context.Context, personID string) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.client.Get(ctx, config.AttendanceApi, "/attendancerecords?personId="+url.QueryEscape(personID), &records)
	return records, err
}
