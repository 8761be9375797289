package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
}

func NewOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, auditRepo: auditRepo}
}

// チェックアウト時点の顧客情報スナップショット
type CustomerInfoInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// カート明細のコピー（商品テーブルは参照しない）
type OrderItemInput struct {
	Name          string
	Brand         string
	Price         float64
	Quantity      int64
	SelectedSize  string
	SelectedColor string
}

type CreateOrderInput struct {
	Customer CustomerInfoInput
	Items    []OrderItemInput
	Total    float64
}

type OrderItemOutput struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Price         float64 `json:"price"`
	Quantity      int64   `json:"quantity"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerAddress string            `json:"customer_address"`
	Status          string            `json:"status"`
	Total           float64           `json:"total"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// 注文作成。ヘッダ→明細を同一トランザクションで書く
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (int64, error) {
	//必須チェック（emailは任意）
	if strings.TrimSpace(in.Customer.Name) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "customer name required")
	}
	if strings.TrimSpace(in.Customer.Phone) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "customer phone required")
	}
	if strings.TrimSpace(in.Customer.Address) == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "customer address required")
	}
	if len(in.Items) == 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return 0, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
	}

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()

		id, err := r.Orders().Create(ctx, model.Order{
			CustomerName:    strings.TrimSpace(in.Customer.Name),
			CustomerPhone:   strings.TrimSpace(in.Customer.Phone),
			CustomerEmail:   strings.TrimSpace(in.Customer.Email),
			CustomerAddress: strings.TrimSpace(in.Customer.Address),
			Status:          model.OrderStatusPending,
			Total:           in.Total,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items := make([]model.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, model.OrderItem{
				ProductName:   it.Name,
				ProductBrand:  it.Brand,
				ProductPrice:  it.Price,
				Quantity:      it.Quantity,
				SelectedSize:  it.SelectedSize,
				SelectedColor: it.SelectedColor,
				CreatedAt:     now,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, id, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	return orderID, nil
}

// 注文一覧（管理画面用）。明細込み、新着順
func (u *OrderUsecase) ListOrders(ctx context.Context) ([]OrderOutput, error) {
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrderDetail(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type UpdateOrderStatusInput struct {
	Status string
}

// ステータス更新。既知の値かだけ見る（遷移の妥当性チェックはしない）
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID int64, in UpdateOrderStatusInput) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !newStatus.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var beforeStatus string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		beforeStatus = string(o.Status)

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.audit(ctx, model.AuditActionUpdateOrderStatus, orderID,
		`{"status":"`+beforeStatus+`"}`, `{"status":"`+string(newStatus)+`"}`)

	return nil
}

// 明細→ヘッダの順で同一トランザクション内で消す（外部キー依存）
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.audit(ctx, model.AuditActionDeleteOrder, orderID, "", "")

	return nil
}

func (u *OrderUsecase) audit(ctx context.Context, action model.AuditAction, resourceID int64, beforeJSON, afterJSON string) {
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		slog.Error("audit log write failed", "action", action, "err", err)
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			Name:          it.ProductName,
			Brand:         it.ProductBrand,
			Price:         it.ProductPrice,
			Quantity:      it.Quantity,
			SelectedSize:  it.SelectedSize,
			SelectedColor: it.SelectedColor,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.CustomerAddress,
		Status:          string(o.Status),
		Total:           o.Total,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
