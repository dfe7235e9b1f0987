package model

import "time"

type ReviewModel struct {
	ID       uint        `gorm:"primaryKey"`
	TitleID  uint        `gorm:"not null;uniqueIndex:ux_review_author_title"`
	Title    *TitleModel `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
	AuthorID uint        `gorm:"not null;uniqueIndex:ux_review_author_title"`
	Author   *UserModel  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Text     string      `gorm:"type:text;not null"`
	Score    int         `gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time   `gorm:"autoCreateTime;index"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

type CommentModel struct {
	ID       uint         `gorm:"primaryKey"`
	ReviewID uint         `gorm:"not null;index"`
	Review   *ReviewModel `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
	AuthorID uint         `gorm:"not null;index"`
	Author   *UserModel   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Text     string       `gorm:"type:text;not null"`
	PubDate  time.Time    `gorm:"autoCreateTime;index"`
}

func (CommentModel) TableName() string {
	return "comments"
}
