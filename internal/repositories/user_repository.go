package repositories

import (
	"github.com/inkwellhq/engagement/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user profile operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByAccountID(accountID string) (*models.User, error)
	UpdateUser(user *models.User) error
	SearchUsers(query string) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user profile in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return translatePgErr(r.db.Create(user).Error)
}

// GetUserByAccountID retrieves a user by the stable engagement account id
func (r *PostgresUserRepository) GetUserByAccountID(accountID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("account_id = ?", accountID).First(&user).Error; err != nil {
		return nil, translatePgErr(err)
	}
	return &user, nil
}

// UpdateUser updates an existing user profile
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return translatePgErr(r.db.Save(user).Error)
}

// SearchUsers retrieves users whose display name matches the query
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("display_name ILIKE ?", "%"+query+"%").Limit(20).Find(&users).Error; err != nil {
		return nil, translatePgErr(err)
	}
	return users, nil
}
