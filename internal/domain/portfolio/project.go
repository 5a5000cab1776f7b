package portfolio

type Project struct {
	ID          string   `json:"id" bson:"id"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Link        string   `json:"link,omitempty" bson:"link,omitempty"`
	Images      []string `json:"images" bson:"images"`
}

type Experience struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Position    string `json:"position,omitempty" bson:"position,omitempty"`
	Date        string `json:"date,omitempty" bson:"date,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}
