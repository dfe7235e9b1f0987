package model

type TitleModel struct {
	ID          uint              `gorm:"primaryKey"`
	Name        string            `gorm:"type:varchar(256);not null"`
	Year        int               `gorm:"not null;index"`
	Description string            `gorm:"type:text;not null;default:''"`
	CategoryID  *uint             `gorm:"index"`
	Category    *CategoryModel    `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres      []GenreTitleModel `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (TitleModel) TableName() string {
	return "titles"
}

// GenreTitleModel links a title to a genre. Deleting the genre nulls the
// link instead of removing it; deleting the title removes it.
type GenreTitleModel struct {
	ID      uint        `gorm:"primaryKey"`
	TitleID uint        `gorm:"not null;uniqueIndex:ux_genre_title"`
	GenreID *uint       `gorm:"uniqueIndex:ux_genre_title"`
	Genre   *GenreModel `gorm:"foreignKey:GenreID;constraint:OnDelete:SET NULL;"`
}

func (GenreTitleModel) TableName() string {
	return "genre_title"
}
