package model

// All lists every model in dependency order, for AutoMigrate in tests and
// for the bulk loader.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&CategoryModel{},
		&GenreModel{},
		&TitleModel{},
		&GenreTitleModel{},
		&ReviewModel{},
		&CommentModel{},
	}
}
