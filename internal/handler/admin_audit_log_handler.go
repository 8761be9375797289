package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/audit-logs（操作ログの閲覧）
type AdminAuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAdminAuditLogHandler(uc *usecase.AuditLogUsecase) *AdminAuditLogHandler {
	return &AdminAuditLogHandler{uc: uc}
}

type AuditLogListResponse struct {
	Success bool             `json:"success"`
	Logs    []model.AuditLog `json:"logs"`
}

func (h *AdminAuditLogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AdminSessionGuard(cfg))
	g.GET("/audit-logs", h.list)
}

func (h *AdminAuditLogHandler) list(c echo.Context) error {
	in := usecase.ListAuditLogsInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
	}

	//from/to（RFC3339）が来たら期間指定で返す
	if c.QueryParam("from") != "" || c.QueryParam("to") != "" {
		var from, to time.Time
		var err error
		if v := c.QueryParam("from"); v != "" {
			from, err = time.Parse(time.RFC3339, v)
			if err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
			}
		}
		if v := c.QueryParam("to"); v != "" {
			to, err = time.Parse(time.RFC3339, v)
			if err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
			}
		}

		limit := 0
		if v := c.QueryParam("limit"); v != "" {
			limit, err = strconv.Atoi(v)
			if err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			}
		}

		logs, err := h.uc.ListAuditLogsBetween(c.Request().Context(), from, to, limit)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, AuditLogListResponse{Success: true, Logs: logs})
	}

	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		in.ResourceID = id
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		in.Offset = o
	}

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, AuditLogListResponse{Success: true, Logs: logs})
}
