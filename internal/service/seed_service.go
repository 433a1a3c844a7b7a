package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
)

// SeedService наполняет справочники стартовыми данными. Все операции
// идемпотентны: повторный запуск ничего не дублирует.
type SeedService struct {
	db *sqlx.DB
}

// NewSeedService создаёт сервис стартовых данных.
func NewSeedService(db *sqlx.DB) *SeedService {
	return &SeedService{db: db}
}

// Seed заполняет справочники и заводит администратора.
func (s *SeedService) Seed(ctx context.Context) error {
	if err := s.seedStatuses(ctx); err != nil {
		return err
	}
	if err := s.seedTypes(ctx); err != nil {
		return err
	}
	if err := s.seedCategories(ctx); err != nil {
		return err
	}
	if err := s.seedDistricts(ctx); err != nil {
		return err
	}
	if err := s.seedRoles(ctx); err != nil {
		return err
	}
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	logger.Log.Info("seed: справочники заполнены")
	return nil
}

func (s *SeedService) seedStatuses(ctx context.Context) error {
	statuses := []string{
		models.StatusNew,
		models.StatusInProgress,
		models.StatusUnderCheck,
		models.StatusCompleted,
		models.StatusRejected,
	}
	for _, name := range statuses {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO request_statuses (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed service: статусы %w", err)
		}
	}
	return nil
}

func (s *SeedService) seedTypes(ctx context.Context) error {
	types := []string{
		"Заявление",
		models.ContactMethodPhone,
		models.ContactMethodVisit,
		models.ContactMethodEmail,
	}
	for _, name := range types {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO request_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed service: типы %w", err)
		}
	}
	return nil
}

func (s *SeedService) seedCategories(ctx context.Context) error {
	categories := []models.Category{
		{Name: "Имущественные преступления", Description: "Кражи, грабежи, мошенничество, угон, порча имущества"},
		{Name: "Транспорт и ПДД", Description: "ДТП, нарушения ПДД, парковка, проблемы на дороге"},
		{Name: "Общественный порядок", Description: "Хулиганство, драки, шум, беспорядки, вандализм"},
		{Name: "Бытовые конфликты", Description: "Семейные ссоры, соседские споры, бытовое насилие"},
		{Name: "Угрозы и безопасность", Description: "Угрозы, насилие, вымогательство, нападение"},
		{Name: "Киберпреступления", Description: "Интернет-мошенничество, взлом, кража данных"},
		{Name: "Наркотики", Description: "Оборот, торговля, употребление наркотиков"},
		{Name: "Экология и животные", Description: "Жестокость к животным, экологические нарушения"},
		{Name: "Пропавшие люди", Description: "Розыск, поиск пропавших"},
		{Name: models.CategoryOther, Description: "Запросы документов, консультации, вопросы о законах"},
	}
	for _, c := range categories {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO categories (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Description); err != nil {
			return fmt.Errorf("seed service: категории %w", err)
		}
	}
	return nil
}

func (s *SeedService) seedDistricts(ctx context.Context) error {
	districts := []string{
		"Центральный", "Железнодорожный", "Заельцовский", "Калининский", "Кировский",
		"Ленинский", "Октябрьский", "Первомайский", "Советский", "Дзержинский",
	}
	for _, name := range districts {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO districts (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			name, name+" район Новосибирска"); err != nil {
			return fmt.Errorf("seed service: районы %w", err)
		}
	}
	return nil
}

func (s *SeedService) seedRoles(ctx context.Context) error {
	roles := []string{"admin", "operator", "employee"}
	for _, name := range roles {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed service: роли %w", err)
		}
	}
	return nil
}

// seedAdmin заводит первого сотрудника и администратора, если учётных
// записей ещё нет. Пароль временный и меняется при первом входе.
func (s *SeedService) seedAdmin(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("seed service: пользователи %w", err)
	}
	if count > 0 {
		return nil
	}

	var employeeID int64
	if err := s.db.GetContext(ctx, &employeeID,
		`INSERT INTO employees (last_name, first_name, patronymic, phone)
		 VALUES ('Администратор', 'Системы', '', NULL) RETURNING id`); err != nil {
		return fmt.Errorf("seed service: сотрудник %w", err)
	}

	var roleID int64
	if err := s.db.GetContext(ctx, &roleID, `SELECT id FROM roles WHERE name = 'admin'`); err != nil {
		return fmt.Errorf("seed service: роль admin %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed service: хеширование %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, employee_id, role_id) VALUES ($1, $2, $3, $4)`,
		"admin", string(hash), employeeID, roleID); err != nil {
		return fmt.Errorf("seed service: администратор %w", err)
	}

	logger.Log.Warn("seed: создана учётная запись admin со стандартным паролем, смените его")
	return nil
}
