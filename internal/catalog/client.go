package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ストアフロントAPIのクライアント

type ProductImage struct {
	ID       int64  `json:"id"`
	URL      string `json:"image_url"`
	Position int64  `json:"position"`
}

type Product struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Brand       string         `json:"brand"`
	Category    string         `json:"category"`
	Price       float64        `json:"price"`
	Rating      float64        `json:"rating"`
	InStock     bool           `json:"inStock"`
	Sizes       []string       `json:"sizes"`
	Colors      []string       `json:"colors"`
	Images      []ProductImage `json:"product_images"`
}

type ProductDetail struct {
	Product
	ReviewCount int64 `json:"review_count"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ProductListResult struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

type ListOptions struct {
	Page     int
	Limit    int
	Category string
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type OrderLine struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Brand         string  `json:"brand"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
	Quantity      int64   `json:"quantity"`
}

type orderCreateRequest struct {
	CustomerInfo CustomerInfo `json:"customerInfo"`
	CartItems    []OrderLine  `json:"cartItems"`
	Total        float64      `json:"total"`
}

type orderCreateResponse struct {
	Success bool   `json:"success"`
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ListProducts は公開商品一覧を取得する
func (c *Client) ListProducts(ctx context.Context, opts ListOptions) (*ProductListResult, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	u := c.baseURL + "/products"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var result ProductListResult
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProduct は商品詳細を取得する
func (c *Client) GetProduct(ctx context.Context, id int64) (*ProductDetail, error) {
	var detail ProductDetail
	if err := c.getJSON(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// PlaceOrder は注文を作成し、採番された注文IDを返す
func (c *Client) PlaceOrder(ctx context.Context, customer CustomerInfo, lines []OrderLine, total float64) (int64, error) {
	body, err := json.Marshal(orderCreateRequest{
		CustomerInfo: customer,
		CartItems:    lines,
		Total:        total,
	})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, decodeError(res)
	}
	var out orderCreateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.OrderID, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return decodeError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeError(res *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("api error (%d): %s", res.StatusCode, body.Error)
	}
	return fmt.Errorf("api error (%d)", res.StatusCode)
}
