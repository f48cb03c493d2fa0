package repository

import (
	"context"
	"fmt"

	"budget_system/internal/domain"

	"gorm.io/gorm"
)

// RoleRepository reads and seeds the role registry
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByName returns the role with the given name
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// List returns every role ordered by name
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.WithContext(ctx).Order("name asc").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// Ensure creates the named roles that are missing and reports which were created
func (r *RoleRepository) Ensure(ctx context.Context, names ...string) ([]string, error) {
	var created []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			var count int64
			if err := tx.Model(&domain.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&domain.Role{Name: name}).Error; err != nil {
				return err
			}
			created = append(created, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed roles: %w", err)
	}
	return created, nil
}
