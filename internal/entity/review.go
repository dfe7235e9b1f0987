package entity

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	ID       uint      `json:"id"`
	TitleID  uint      `json:"-"`
	AuthorID uint      `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

type Comment struct {
	ID       uint      `json:"id"`
	ReviewID uint      `json:"-"`
	AuthorID uint      `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
