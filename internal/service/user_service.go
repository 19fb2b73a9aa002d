package service

import (
	"strings"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"
)

// UserService 卖家用户管理
type UserService struct {
	users repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUserInput 创建用户输入
type CreateUserInput struct {
	Email       string
	DisplayName string
	Role        string
}

// UpdateUserInput 更新用户输入（nil 字段不变更）
type UpdateUserInput struct {
	DisplayName *string
	Status      *string
}

// List 用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.users.List(filter)
}

// GetByID 用户详情
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// CreateUser 创建用户，邮箱唯一
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrInvalidInput
	}
	role := strings.TrimSpace(input.Role)
	switch role {
	case "":
		role = constants.UserRoleSeller
	case constants.UserRoleSeller, constants.UserRoleProvider:
	default:
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	user := &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        role,
		Status:      constants.UserStatusActive,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser 更新用户资料与状态
func (s *UserService) UpdateUser(id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
			return nil, ErrInvalidInput
		}
		user.Status = status
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetOrCreateProvider 按邮箱获取 provider 用户，不存在则创建。
// 行情价格同步产生的 Offer 统一归属该用户
func (s *UserService) GetOrCreateProvider(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	user = &models.User{
		Email:       email,
		DisplayName: "price feed",
		Role:        constants.UserRoleProvider,
		Status:      constants.UserStatusActive,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
