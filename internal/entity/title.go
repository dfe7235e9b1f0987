package entity

type Title struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
	Rating      *float64  `json:"rating"`
}

type TitleFilter struct {
	Genre    string
	Category string
	Name     string
	Year     *int
	Limit    uint64
	Offset   uint64
}

// AverageScore is the mean of scores, nil when there are none.
func AverageScore(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := float64(sum) / float64(len(scores))
	return &avg
}
