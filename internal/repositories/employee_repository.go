package repositories

import (
	"github.com/centerapp/backend/internal/models"
	"gorm.io/gorm"
)

// EmployeeRepository defines the interface for employee directory operations
type EmployeeRepository interface {
	CreateEmployee(employee *models.Employee) error
	GetEmployeeByID(id uint) (*models.Employee, error)
	GetEmployeeByEmail(email string) (*models.Employee, error)
	GetEmployees() ([]models.Employee, error)
	UpdateEmployee(employee *models.Employee) error
	DeleteEmployee(id uint) error
}

// PostgresEmployeeRepository implements EmployeeRepository for PostgreSQL
type PostgresEmployeeRepository struct {
	db *gorm.DB
}

// NewPostgresEmployeeRepository creates a new PostgresEmployeeRepository
func NewPostgresEmployeeRepository(db *gorm.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

// CreateEmployee creates a new employee in PostgreSQL
func (r *PostgresEmployeeRepository) CreateEmployee(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// GetEmployeeByID retrieves an employee by ID from PostgreSQL
func (r *PostgresEmployeeRepository) GetEmployeeByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetEmployeeByEmail retrieves an employee by email from PostgreSQL
func (r *PostgresEmployeeRepository) GetEmployeeByEmail(email string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetEmployees retrieves all employees from PostgreSQL
func (r *PostgresEmployeeRepository) GetEmployees() ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.Order("name ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// UpdateEmployee updates an existing employee in PostgreSQL
func (r *PostgresEmployeeRepository) UpdateEmployee(employee *models.Employee) error {
	return r.db.Save(employee).Error
}

// DeleteEmployee deletes an employee by ID from PostgreSQL
func (r *PostgresEmployeeRepository) DeleteEmployee(id uint) error {
	return r.db.Delete(&models.Employee{}, id).Error
}
