package page

// Metadata holds the structured facts extracted by the cascade. Fields are
// strings where the source markup is authoritative about formatting (price
// stays "259000", not a float).
type Metadata struct {
	Name        string     `json:"name,omitempty"`
	Price       string     `json:"price,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	ReviewCount int        `json:"review_count,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Description string     `json:"description,omitempty"`
	Items       []MetaItem `json:"items,omitempty"`

	// Source labels which cascade stage actually supplied the metadata:
	// structured_data, meta_tags, microdata, or heading. Feeds the
	// template learning cache.
	Source string `json:"source,omitempty"`
}

// MetaItem is one entry of a listing page's item array.
type MetaItem struct {
	Name  string `json:"name"`
	Price string `json:"price,omitempty"`
	URL   string `json:"url,omitempty"`
}

// IsEmpty reports whether the cascade found nothing at all.
func (m Metadata) IsEmpty() bool {
	return m.Name == "" && m.Price == "" && m.Brand == "" &&
		m.Rating == 0 && m.ReviewCount == 0 && len(m.Items) == 0
}

// FieldsFound lists the populated field names, for template learning.
func (m Metadata) FieldsFound() []string {
	var fields []string
	if m.Name != "" {
		fields = append(fields, "name")
	}
	if m.Price != "" {
		fields = append(fields, "price")
	}
	if m.Currency != "" {
		fields = append(fields, "currency")
	}
	if m.Rating != 0 {
		fields = append(fields, "rating")
	}
	if m.ReviewCount != 0 {
		fields = append(fields, "review_count")
	}
	if m.Brand != "" {
		fields = append(fields, "brand")
	}
	if len(m.Items) > 0 {
		fields = append(fields, "items")
	}
	return fields
}
