package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// statusが既知の値かどうか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 注文。顧客情報は注文時点のスナップショット（顧客テーブルへの参照ではない）
type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"type:varchar(30);not null" json:"customer_phone"`
	CustomerEmail   string      `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerAddress string      `gorm:"type:text;not null" json:"customer_address"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Total           float64     `gorm:"not null" json:"total"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 注文明細
// 商品情報は購入時点のコピー。後で商品が編集・削除されても注文履歴は変わらない
type OrderItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64     `gorm:"not null;index" json:"order_id"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductBrand  string    `gorm:"type:varchar(255)" json:"product_brand"`
	ProductPrice  float64   `gorm:"not null" json:"product_price"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	SelectedSize  string    `gorm:"type:varchar(50)" json:"selected_size"`
	SelectedColor string    `gorm:"type:varchar(50)" json:"selected_color"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
