package models

// Citizen заявитель. Дедупликация выполняется по точному совпадению
// имени и фамилии (в операторском пути — дополнительно по телефону).
type Citizen struct {
	ID         int64  `db:"id" json:"id"`
	LastName   string `db:"last_name" json:"last_name"`
	FirstName  string `db:"first_name" json:"first_name"`
	Patronymic string `db:"patronymic" json:"patronymic"`
	Phone      string `db:"phone" json:"phone"`
}
