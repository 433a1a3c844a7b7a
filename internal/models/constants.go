package models

// Статусы обращений (справочник request_statuses, имена фиксируются сидом).
const (
	StatusNew        = "Новое"
	StatusInProgress = "В работе"
	StatusUnderCheck = "На проверке"
	StatusCompleted  = "Выполнено"
	StatusRejected   = "Отклонено"
)

// TerminalStatuses статусы, в которых обращение не считается активным.
var TerminalStatuses = map[string]struct{}{
	StatusCompleted: {},
	StatusRejected:  {},
}

// Виды действий в журнале аудита.
const (
	AuditActionCreate           = "CREATE"
	AuditActionCreateByOperator = "CREATE_BY_OPERATOR"
	AuditActionUpdateStatus     = "UPDATE_STATUS"
	AuditActionAssignExecutor   = "ASSIGN_EXECUTOR"
	AuditActionAICorrection     = "AI_CORRECTION"
	AuditActionDelete           = "DELETE"
)

// Приоритеты AI-анализа.
const (
	PriorityHigh   = "Высокий"
	PriorityMedium = "Средний"
	PriorityLow    = "Низкий"
)

// Тональности AI-анализа.
const (
	SentimentNegative = "Негативный"
	SentimentNeutral  = "Нейтральный"
	SentimentPositive = "Положительный"
)

// CategoryOther сентинельная категория, назначается пока классификация не выполнена.
const CategoryOther = "Другое"

// DistrictUnknown значение, которое возвращает AI-детектор района при неудаче.
const DistrictUnknown = "Не определен"

// CitizenLocationUnknown подставляется, когда гражданин не указал своё местоположение.
const CitizenLocationUnknown = "Не указан"

// Роли пользователей (справочник roles, имена фиксируются сидом).
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleEmployee = "employee"
)

// Способы обращения при создании оператором.
const (
	ContactMethodPhone = "Телефонный звонок"
	ContactMethodVisit = "Личное посещение"
	ContactMethodEmail = "Электронная почта"
)

// EntityCitizenRequest тип сущности в журнале аудита.
const EntityCitizenRequest = "CitizenRequest"
