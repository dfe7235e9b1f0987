package entity

type Category struct {
	ID   uint   `json:"-"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Genre struct {
	ID   uint   `json:"-"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}
