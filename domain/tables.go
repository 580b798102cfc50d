package domain

// Tables returns every model that is backed by a database table, in migration order.
func Tables() []interface{} {
	return []interface{}{
		&User{},
		&Tweet{},
		&Reply{},
		&Like{},
		&Followship{},
	}
}
