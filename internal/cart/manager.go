package cart

import (
	"encoding/json"
	"log/slog"
	"strconv"
)

// カート1行分。同一商品でもサイズ・色が違えば別行
type Line struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Image         string  `json:"image"`
	Brand         string  `json:"brand"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
	Quantity      int64   `json:"quantity"`
}

// Manager はカートの状態を保持し、変更のたびにStoreへ書き戻す
type Manager struct {
	store Store
	lines []Line
}

func NewManager(store Store) *Manager {
	m := &Manager{store: store}
	m.load()
	return m
}

// 保存データの読み込み。壊れたデータは空カート扱い
func (m *Manager) load() {
	data, err := m.store.Load()
	if err != nil {
		slog.Warn("failed to load cart, starting empty", "error", err)
		m.lines = nil
		return
	}
	if len(data) == 0 {
		m.lines = nil
		return
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		slog.Warn("failed to parse saved cart, starting empty", "error", err)
		m.lines = nil
		return
	}
	m.lines = lines
}

func (m *Manager) persist() error {
	data, err := json.Marshal(m.linesOrEmpty())
	if err != nil {
		return err
	}
	return m.store.Save(data)
}

func (m *Manager) linesOrEmpty() []Line {
	if m.lines == nil {
		return []Line{}
	}
	return m.lines
}

// AddItem は (商品ID, サイズ, 色) が一致する行があれば数量を加算、無ければ行を追加する。
// 数量は渡された値のまま足す（0なら合計は変わらない）
func (m *Manager) AddItem(line Line) error {
	for i := range m.lines {
		if m.lines[i].ID == line.ID &&
			m.lines[i].SelectedSize == line.SelectedSize &&
			m.lines[i].SelectedColor == line.SelectedColor {
			m.lines[i].Quantity += line.Quantity
			return m.persist()
		}
	}
	m.lines = append(m.lines, line)
	return m.persist()
}

// RemoveItem は一致する行を削除する。存在しなければ何もしない
func (m *Manager) RemoveItem(id int64, size, color string) error {
	for i := range m.lines {
		if m.lines[i].ID == id &&
			m.lines[i].SelectedSize == size &&
			m.lines[i].SelectedColor == color {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return m.persist()
		}
	}
	return nil
}

// UpdateQuantity は数量を置き換える。0以下なら行削除と同じ
func (m *Manager) UpdateQuantity(id int64, size, color string, quantity int64) error {
	if quantity <= 0 {
		return m.RemoveItem(id, size, color)
	}
	for i := range m.lines {
		if m.lines[i].ID == id &&
			m.lines[i].SelectedSize == size &&
			m.lines[i].SelectedColor == color {
			m.lines[i].Quantity = quantity
			return m.persist()
		}
	}
	return nil
}

func (m *Manager) Clear() error {
	m.lines = nil
	return m.persist()
}

// Lines は現在のカート内容のコピーを返す
func (m *Manager) Lines() []Line {
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out
}

// TotalPrice は 単価×数量 の合計
func (m *Manager) TotalPrice() float64 {
	var total float64
	for _, l := range m.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// TotalItems は数量の合計
func (m *Manager) TotalItems() int64 {
	var total int64
	for _, l := range m.lines {
		total += l.Quantity
	}
	return total
}

// BadgeLabel はカートバッジ表示用。100個以上は "99+"
func (m *Manager) BadgeLabel() string {
	total := m.TotalItems()
	if total == 0 {
		return ""
	}
	if total > 99 {
		return "99+"
	}
	return strconv.FormatInt(total, 10)
}
