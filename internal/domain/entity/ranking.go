package entity

// Rótulos fixados no fim do ranking.
const (
	LabelUnknown = "Unknown"
	LabelOther   = "Other"
)

// RankRow é uma linha do ranking de capítulos.
type RankRow struct {
	Chapter  string  `json:"chapter"`
	Selected float64 `json:"selected"`
	Prior    float64 `json:"prior"`
	Total    float64 `json:"total"`
}

// Ranking é o top-N de capítulos em dois anos fiscais, já na ordem de exibição.
type Ranking struct {
	SelectedFY string    `json:"selected_fy"`
	PriorFY    string    `json:"prior_fy"`
	TopN       int       `json:"top_n"`
	Rows       []RankRow `json:"rows"`
}
