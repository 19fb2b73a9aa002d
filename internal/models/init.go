package models

import (
	"github.com/restock-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(username, password string) error {
	var count int64
	DB.Model(&Admin{}).Count(&count)
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "username", username, "password", password)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}

// InitDefaultDeliveryProfile 确保存在唯一默认交付档案
func InitDefaultDeliveryProfile(title string) error {
	var count int64
	DB.Model(&DeliveryProfile{}).Where("is_default = ?", true).Count(&count)
	if count > 0 {
		return nil
	}
	if title == "" {
		title = "Standard"
	}
	profile := DeliveryProfile{Title: title, IsDefault: true}
	if err := DB.Create(&profile).Error; err != nil {
		return err
	}
	logger.Infow("default_delivery_profile_created", "title", title)
	return nil
}
