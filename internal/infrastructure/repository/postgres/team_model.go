package postgres

import "time"

type teamTableModel struct {
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	ShortName string    `db:"short_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	Code      string `db:"code"`
	Name      string `db:"name"`
	ShortName string `db:"short_name"`
}
