package checkout

import (
	"context"
	"errors"

	"app/internal/cart"
	"app/internal/catalog"
)

// チェックアウトの状態
type State string

const (
	Collecting State = "COLLECTING" // 顧客情報の入力中
	Submitting State = "SUBMITTING" // 注文送信中
	Confirmed  State = "CONFIRMED"  // 注文確定済み
)

// 注文送信先。catalog.Client が実装する
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, customer catalog.CustomerInfo, lines []catalog.OrderLine, total float64) (int64, error)
}

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNotCollecting = errors.New("checkout is not accepting input")
)

// Flow はカート内容から注文を確定するまでの流れを管理する
type Flow struct {
	cart    *cart.Manager
	placer  OrderPlacer
	state   State
	orderID int64
}

func NewFlow(cartManager *cart.Manager, placer OrderPlacer) *Flow {
	return &Flow{
		cart:   cartManager,
		placer: placer,
		state:  Collecting,
	}
}

func (f *Flow) State() State {
	return f.state
}

// OrderID は確定後の注文ID。未確定なら0
func (f *Flow) OrderID() int64 {
	return f.orderID
}

// Submit は顧客情報を検証して注文を送信する。
// 成功したらカートを空にして確定状態へ、失敗したらカートを保ったまま入力中に戻る
func (f *Flow) Submit(ctx context.Context, customer catalog.CustomerInfo) (int64, error) {
	if f.state != Collecting {
		return 0, ErrNotCollecting
	}
	if err := validateCustomer(customer); err != nil {
		return 0, err
	}
	lines := f.cart.Lines()
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}

	f.state = Submitting
	orderID, err := f.placer.PlaceOrder(ctx, customer, toOrderLines(lines), f.cart.TotalPrice())
	if err != nil {
		f.state = Collecting
		return 0, err
	}

	if err := f.cart.Clear(); err != nil {
		f.state = Collecting
		return 0, err
	}
	f.state = Confirmed
	f.orderID = orderID
	return orderID, nil
}

// 電話・住所まで必須。メールは任意
func validateCustomer(c catalog.CustomerInfo) error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Phone == "" {
		return errors.New("phone is required")
	}
	if c.Address == "" {
		return errors.New("address is required")
	}
	return nil
}

func toOrderLines(lines []cart.Line) []catalog.OrderLine {
	out := make([]catalog.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, catalog.OrderLine{
			ID:            l.ID,
			Name:          l.Name,
			Price:         l.Price,
			Brand:         l.Brand,
			SelectedSize:  l.SelectedSize,
			SelectedColor: l.SelectedColor,
			Quantity:      l.Quantity,
		})
	}
	return out
}
