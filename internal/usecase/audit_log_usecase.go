package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 管理者操作ログの閲覧（管理画面用）
type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

type ListAuditLogsInput struct {
	Action       string
	ResourceType string
	ResourceID   int64 // 0なら条件なし
	Limit        int
	Offset       int
}

func (u *AuditLogUsecase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if in.Limit < 0 || in.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid paging")
	}

	filter := repo.AuditLogFilter{
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		filter.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		filter.ResourceType = &rt
	}
	if in.ResourceID > 0 {
		id := in.ResourceID
		filter.ResourceID = &id
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		slog.Error("audit log query failed", "err", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return logs, nil
}

// 期間指定つきの一覧
func (u *AuditLogUsecase) ListAuditLogsBetween(ctx context.Context, from, to time.Time, limit int) ([]model.AuditLog, error) {
	if !to.IsZero() && !from.IsZero() && to.Before(from) {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid range")
	}

	filter := repo.AuditLogFilter{Limit: limit}
	if !from.IsZero() {
		filter.CreatedFrom = &from
	}
	if !to.IsZero() {
		filter.CreatedTo = &to
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		slog.Error("audit log query failed", "err", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return logs, nil
}
