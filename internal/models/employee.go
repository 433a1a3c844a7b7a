package models

// Employee сотрудник, принимающий и исполняющий обращения.
type Employee struct {
	ID         int64   `db:"id" json:"id"`
	LastName   string  `db:"last_name" json:"last_name"`
	FirstName  string  `db:"first_name" json:"first_name"`
	Patronymic string  `db:"patronymic" json:"patronymic"`
	Phone      *string `db:"phone" json:"phone,omitempty"`
}

// FullName собирает ФИО для логов и ответов API.
func (e *Employee) FullName() string {
	name := e.LastName + " " + e.FirstName
	if e.Patronymic != "" {
		name += " " + e.Patronymic
	}
	return name
}
