package models

// Справочные сущности: read-mostly данные, блокировок не требуют.

// District административный район, по которому маршрутизируются обращения.
type District struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Category тематическая категория обращения.
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// RequestStatus статус из фиксированного набора.
type RequestStatus struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// RequestType тип обращения (заявление, жалоба, консультация и т.д.).
type RequestType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Role роль пользователя системы.
type Role struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
