package model

import "time"

type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Brand       string  `gorm:"type:varchar(255);not null;index" json:"brand"`
	Category    string  `gorm:"type:varchar(255);not null;index" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	Rating      float64 `gorm:"not null;default:0" json:"rating"`
	InStock     bool    `gorm:"not null;default:true" json:"inStock"`

	//サイズ・カラーはJSON配列で保存（省略時は空配列）
	Sizes  []string `gorm:"serializer:json" json:"sizes"`
	Colors []string `gorm:"serializer:json" json:"colors"`

	//画像はposition昇順。単一imageカラムは持たない（画像リストに一本化）
	Images []ProductImage `gorm:"foreignKey:ProductID" json:"product_images"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 商品画像。商品削除と一緒に消える
type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"type:text;not null;column:image_url" json:"image_url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
