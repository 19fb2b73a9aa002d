package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInvalidPosition 目标位次非法（负数）
var ErrInvalidPosition = errors.New("invalid position")

// positionRow 参与排序的最小投影
type positionRow struct {
	ID       uint
	Position int
}

// moveToPosition 换位语义的移动原语：目标位已有成员时与其对调 position，
// 其余成员不动；目标位为空时仅写入移动项。同一作用域内 position 的
// 集合保持不变。
func moveToPosition(db *gorm.DB, model interface{}, scopeQuery string, scopeArgs []interface{}, itemID uint, target int) error {
	if target < 0 {
		return ErrInvalidPosition
	}

	var mover positionRow
	if err := db.Model(model).Select("id", "position").
		Where(scopeQuery, scopeArgs...).
		Where("id = ?", itemID).
		Take(&mover).Error; err != nil {
		return err
	}
	if mover.Position == target {
		return nil
	}

	var occupant positionRow
	err := db.Model(model).Select("id", "position").
		Where(scopeQuery, scopeArgs...).
		Where("position = ? AND id <> ?", target, itemID).
		Take(&occupant).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		if err := db.Model(model).Where("id = ?", occupant.ID).
			Update("position", mover.Position).Error; err != nil {
			return err
		}
	}
	return db.Model(model).Where("id = ?", itemID).Update("position", target).Error
}

// compactPositions 将作用域内的 position 重排为连续的 0..n-1，
// 按原 position 升序（并列时按 id）保持相对顺序。
func compactPositions(db *gorm.DB, model interface{}, scopeQuery string, scopeArgs []interface{}) error {
	var rows []positionRow
	if err := db.Model(model).Select("id", "position").
		Where(scopeQuery, scopeArgs...).
		Order("position ASC, id ASC").
		Find(&rows).Error; err != nil {
		return err
	}
	for i, row := range rows {
		if row.Position == i {
			continue
		}
		if err := db.Model(model).Where("id = ?", row.ID).
			Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// nextPosition 返回作用域内下一个空闲 position（即当前成员数）
func nextPosition(db *gorm.DB, model interface{}, scopeQuery string, scopeArgs []interface{}) (int, error) {
	var count int64
	if err := db.Model(model).Where(scopeQuery, scopeArgs...).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
