package model

type CategoryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name string `gorm:"type:varchar(256);not null"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

type GenreModel struct {
	ID   uint   `gorm:"primaryKey"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name string `gorm:"type:varchar(256);not null"`
}

func (GenreModel) TableName() string {
	return "genres"
}
