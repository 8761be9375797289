package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

func TestAuditLogUsecase_ListAuditLogs_InvalidPaging(t *testing.T) {
	uc := usecase.NewAuditLogUsecase(new(AuditRepoMock))

	_, err := uc.ListAuditLogs(context.Background(), usecase.ListAuditLogsInput{Limit: -1})
	assertErrContains(t, err, "invalid paging")
}

// 指定した条件だけがフィルタに載る
func TestAuditLogUsecase_ListAuditLogs_BuildsFilter(t *testing.T) {
	ctx := context.Background()

	aRepo := new(AuditRepoMock)
	uc := usecase.NewAuditLogUsecase(aRepo)

	aRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Action != nil && *f.Action == model.AuditActionDeleteProduct &&
			f.ResourceType != nil && *f.ResourceType == model.AuditResourceProduct &&
			f.ResourceID == nil &&
			f.Limit == 10
	})).Return([]model.AuditLog{{ID: 1, Action: model.AuditActionDeleteProduct}}, nil)

	logs, err := uc.ListAuditLogs(ctx, usecase.ListAuditLogsInput{
		Action:       "DELETE_PRODUCT",
		ResourceType: "product",
		Limit:        10,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(logs))

	aRepo.AssertExpectations(t)
}

func TestAuditLogUsecase_ListAuditLogsBetween_InvalidRange(t *testing.T) {
	uc := usecase.NewAuditLogUsecase(new(AuditRepoMock))

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := uc.ListAuditLogsBetween(context.Background(), from, to, 10)
	assertErrContains(t, err, "invalid range")
}

func TestAuditLogUsecase_ListAuditLogsBetween_Success(t *testing.T) {
	ctx := context.Background()

	aRepo := new(AuditRepoMock)
	uc := usecase.NewAuditLogUsecase(aRepo)

	from := time.Now().Add(-24 * time.Hour)
	to := time.Now()

	aRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.CreatedFrom != nil && f.CreatedTo != nil && f.Limit == 20
	})).Return([]model.AuditLog{}, nil)

	logs, err := uc.ListAuditLogsBetween(ctx, from, to, 20)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(logs))
}
