package models

// User учётная запись сотрудника для входа в систему.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	EmployeeID   int64  `db:"employee_id" json:"employee_id"`
	RoleID       int64  `db:"role_id" json:"role_id"`
}
