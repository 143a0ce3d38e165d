package storage

import (
	"context"

	"brgyalert/backend/internal/models"
)

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db(ctx).Create(user).Error)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByEmail matches on the normalised (lower-case) address.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := s.db(ctx).Order("created_at desc").Limit(clampLimit(limit, 500)).Find(&users).Error
	return users, translate(err)
}

func (s *Service) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	return affected(s.db(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role))
}

func (s *Service) UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) error {
	return affected(s.db(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status))
}

func (s *Service) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return affected(s.db(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash))
}

// UserNames resolves display names for ids in a single query. Unknown ids are
// simply absent from the result.
func (s *Service) UserNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   string
		Name string
	}
	if err := s.db(ctx).Model(&models.User{}).Select("id", "name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names, nil
}

func (s *Service) CountUsersByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Count int64
	}
	err := s.db(ctx).Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[models.Role]int64, len(rows))
	for _, r := range rows {
		counts[r.Role] = r.Count
	}
	return counts, nil
}
