package converter

type ProductInfoRedisModel struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Brand      string   `json:"brand"`
	Material   string   `json:"material"`
	Categories []string `json:"categories"`
	Price      int64    `json:"price"`
}
