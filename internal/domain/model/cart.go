package model

// カート明細はセッション状態（DBの正とは別物）。
// 追加時点のスナップショットを必ず保存。
type CartLineItem struct {
	ProductID     int64         `json:"product_id"`
	Title         string        `json:"title"`
	Price         int64         `json:"price"`
	DiscountPrice *int64        `json:"discount_price,omitempty"`
	Quantity      int64         `json:"quantity"`
	Color         string        `json:"color,omitempty"`
	Variant       *ColorVariant `json:"variant,omitempty"`
	ImageURL      string        `json:"image_url,omitempty"`
}

// 商品参照かタイトルが欠けた明細はデータ破損扱い。
// 計算からは黙って除外する（上流で検知する）。
func (li *CartLineItem) IsMalformed() bool {
	return li.ProductID <= 0 || li.Title == ""
}

type SessionCart struct {
	Lines []CartLineItem `json:"lines"`
}

// セッション単位のウィッシュリスト（商品ID集合）
type SessionWishlist struct {
	ProductIDs []int64 `json:"product_ids"`
}

func (w *SessionWishlist) Contains(productID int64) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
