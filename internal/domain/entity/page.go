package entity

// Match describes one element returned by a query.
type Match struct {
	Selector   string            `json:"selector"`
	Index      int               `json:"index"`
	Text       string            `json:"text"`
	HTML       string            `json:"html,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
