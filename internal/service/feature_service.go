package service

import (
	"strings"

	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"gorm.io/gorm"
)

// FeatureService 商品特性业务服务：直连 CRUD 与期望态差量同步两条路径，
// 两条路径遵守同一套 position 压缩与唯一性规则
type FeatureService struct {
	products repository.ProductRepository
	features repository.FeatureRepository
}

// NewFeatureService 创建特性服务
func NewFeatureService(products repository.ProductRepository, features repository.FeatureRepository) *FeatureService {
	return &FeatureService{products: products, features: features}
}

// FeatureValueState 期望态中的一个特性值（ID 为 0 表示新建）
type FeatureValueState struct {
	ID    uint
	Key   string
	Value string
}

// FeatureState 期望态中的一个特性（ID 为 0 表示新建），值按期望顺序排列
type FeatureState struct {
	ID     uint
	Title  string
	Values []FeatureValueState
}

// FeatureValueDiff 特性值层的差量集合
type FeatureValueDiff struct {
	Create  []FeatureValueState
	Update  []FeatureValueState
	Delete  []uint
	Reorder []uint
}

// IsEmpty 差量是否为空
func (d FeatureValueDiff) IsEmpty() bool {
	return len(d.Create) == 0 && len(d.Update) == 0 && len(d.Delete) == 0 && len(d.Reorder) == 0
}

// FeatureUpdate 单个特性的更新差量
type FeatureUpdate struct {
	ID     uint
	Title  *string
	Values FeatureValueDiff
}

// FeatureDiff 特性层的差量集合。Reorder 仅在成员一致但顺序不同时给出，
// 内容为期望顺序下的特性 ID。
type FeatureDiff struct {
	Create  []FeatureState
	Update  []FeatureUpdate
	Delete  []uint
	Reorder []uint
}

// IsEmpty 差量是否为空
func (d FeatureDiff) IsEmpty() bool {
	return len(d.Create) == 0 && len(d.Update) == 0 && len(d.Delete) == 0 && len(d.Reorder) == 0
}

// diffValueStates 计算特性值差量，与特性层使用同一套成员与顺序规则
func diffValueStates(current []models.FeatureValue, desired []FeatureValueState) FeatureValueDiff {
	var diff FeatureValueDiff

	currentByID := make(map[uint]*models.FeatureValue, len(current))
	currentOrder := make([]uint, 0, len(current))
	for i := range current {
		currentByID[current[i].ID] = &current[i]
		currentOrder = append(currentOrder, current[i].ID)
	}

	desiredOrder := make([]uint, 0, len(desired))
	desiredIDs := make(map[uint]bool, len(desired))
	for _, state := range desired {
		if state.ID == 0 {
			diff.Create = append(diff.Create, state)
			continue
		}
		desiredOrder = append(desiredOrder, state.ID)
		desiredIDs[state.ID] = true
		existing, known := currentByID[state.ID]
		if !known {
			continue
		}
		if existing.Key != state.Key || existing.Value != state.Value {
			diff.Update = append(diff.Update, state)
		}
	}

	for _, id := range currentOrder {
		if !desiredIDs[id] {
			diff.Delete = append(diff.Delete, id)
		}
	}

	if sameMembers(currentOrder, desiredOrder) && !sameOrder(currentOrder, desiredOrder) {
		diff.Reorder = desiredOrder
	}
	return diff
}

// ComputeFeatureDiff 将期望态与持久化状态对比为四个互斥差量集合
func ComputeFeatureDiff(current []models.Feature, desired []FeatureState) FeatureDiff {
	var diff FeatureDiff

	currentByID := make(map[uint]*models.Feature, len(current))
	currentOrder := make([]uint, 0, len(current))
	for i := range current {
		currentByID[current[i].ID] = &current[i]
		currentOrder = append(currentOrder, current[i].ID)
	}

	desiredOrder := make([]uint, 0, len(desired))
	desiredIDs := make(map[uint]bool, len(desired))
	for _, state := range desired {
		if state.ID == 0 {
			diff.Create = append(diff.Create, state)
			continue
		}
		desiredOrder = append(desiredOrder, state.ID)
		desiredIDs[state.ID] = true
		existing, known := currentByID[state.ID]
		if !known {
			continue
		}
		update := FeatureUpdate{ID: state.ID}
		changed := false
		if existing.Title != state.Title {
			title := state.Title
			update.Title = &title
			changed = true
		}
		update.Values = diffValueStates(existing.Values, state.Values)
		if !update.Values.IsEmpty() {
			changed = true
		}
		if changed {
			diff.Update = append(diff.Update, update)
		}
	}

	for _, id := range currentOrder {
		if !desiredIDs[id] {
			diff.Delete = append(diff.Delete, id)
		}
	}

	if sameMembers(currentOrder, desiredOrder) && !sameOrder(currentOrder, desiredOrder) {
		diff.Reorder = desiredOrder
	}
	return diff
}

func sameMembers(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[uint]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

func sameOrder(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ListByProduct 商品特性列表
func (s *FeatureService) ListByProduct(productID uint) ([]models.Feature, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return s.features.ListByProduct(productID)
}

// GetByID 特性详情
func (s *FeatureService) GetByID(id uint) (*models.Feature, error) {
	feature, err := s.features.GetByID(id)
	if err != nil {
		return nil, err
	}
	if feature == nil {
		return nil, ErrNotFound
	}
	return feature, nil
}

// CreateFeature 创建特性及其值
func (s *FeatureService) CreateFeature(productID uint, title string, values []FeatureValueState) (*models.Feature, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	var created *models.Feature
	err := s.products.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		features := s.features.WithTx(tx)

		product, err := products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}
		feature, err := createFeatureTx(features, product.ID, FeatureState{Title: title, Values: values})
		if err != nil {
			return err
		}
		created = feature
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createFeatureTx 事务内创建特性，position 取作用域末尾
func createFeatureTx(features repository.FeatureRepository, productID uint, state FeatureState) (*models.Feature, error) {
	title := strings.TrimSpace(state.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	count, err := features.CountByTitle(productID, title, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrFeatureTitleExists
	}
	position, err := features.NextPosition(productID)
	if err != nil {
		return nil, err
	}
	feature := &models.Feature{ProductID: productID, Title: title, Position: position}
	if err := features.Create(feature); err != nil {
		return nil, err
	}
	for index, value := range state.Values {
		record := &models.FeatureValue{
			FeatureID: feature.ID,
			Key:       value.Key,
			Value:     value.Value,
			Position:  index,
		}
		if err := features.CreateValue(record); err != nil {
			return nil, err
		}
		feature.Values = append(feature.Values, *record)
	}
	return feature, nil
}

// FeatureValueUpdateInput 特性值子编辑输入
type FeatureValueUpdateInput struct {
	ID       uint
	Key      *string
	Value    *string
	Position *int
}

// UpdateFeatureInput 更新特性输入
type UpdateFeatureInput struct {
	Title          *string
	Position       *int
	CreateValues   []FeatureValueState
	UpdateValues   []FeatureValueUpdateInput
	DeleteValueIDs []uint
}

// UpdateFeature 应用特性的全部子编辑
func (s *FeatureService) UpdateFeature(featureID uint, input UpdateFeatureInput) (*models.Feature, error) {
	var updated *models.Feature
	err := s.products.Transaction(func(tx *gorm.DB) error {
		features := s.features.WithTx(tx)

		feature, err := features.GetByID(featureID)
		if err != nil {
			return err
		}
		if feature == nil {
			return ErrNotFound
		}

		if err := applyFeatureEdits(features, feature, input); err != nil {
			return err
		}
		updated, err = features.GetByID(feature.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyFeatureEdits 事务内应用特性子编辑：值新增、值改写与移位、值删除
// 加压缩、特性改名与移位
func applyFeatureEdits(features repository.FeatureRepository, feature *models.Feature, input UpdateFeatureInput) error {
	for _, state := range input.CreateValues {
		position, err := features.NextValuePosition(feature.ID)
		if err != nil {
			return err
		}
		if err := features.CreateValue(&models.FeatureValue{
			FeatureID: feature.ID,
			Key:       state.Key,
			Value:     state.Value,
			Position:  position,
		}); err != nil {
			return err
		}
	}

	for _, edit := range input.UpdateValues {
		value, err := features.GetValue(edit.ID)
		if err != nil {
			return err
		}
		if value == nil || value.FeatureID != feature.ID {
			return ErrNotFound
		}
		if edit.Key != nil {
			value.Key = *edit.Key
		}
		if edit.Value != nil {
			value.Value = *edit.Value
		}
		if edit.Key != nil || edit.Value != nil {
			if err := features.UpdateValue(value); err != nil {
				return err
			}
		}
		if edit.Position != nil {
			if err := features.MoveValueToPosition(feature.ID, value.ID, *edit.Position); err != nil {
				return mapPositionError(err)
			}
		}
	}

	for _, valueID := range input.DeleteValueIDs {
		value, err := features.GetValue(valueID)
		if err != nil {
			return err
		}
		if value == nil || value.FeatureID != feature.ID {
			return ErrNotFound
		}
		if err := features.DeleteValue(value.ID); err != nil {
			return err
		}
	}
	if len(input.DeleteValueIDs) > 0 {
		if err := features.CompactValuePositions(feature.ID); err != nil {
			return err
		}
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return ErrInvalidInput
		}
		if title != feature.Title {
			count, err := features.CountByTitle(feature.ProductID, title, &feature.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrFeatureTitleExists
			}
			feature.Title = title
			feature.Values = nil
			if err := features.Update(feature); err != nil {
				return err
			}
		}
	}
	if input.Position != nil {
		if err := features.MoveToPosition(feature.ProductID, feature.ID, *input.Position); err != nil {
			return mapPositionError(err)
		}
	}
	return nil
}

// DeleteFeature 删除特性并压缩剩余 position
func (s *FeatureService) DeleteFeature(featureID uint) error {
	return s.products.Transaction(func(tx *gorm.DB) error {
		features := s.features.WithTx(tx)

		feature, err := features.GetByID(featureID)
		if err != nil {
			return err
		}
		if feature == nil {
			return ErrNotFound
		}
		if err := features.Delete(feature.ID); err != nil {
			return err
		}
		return features.CompactPositions(feature.ProductID)
	})
}

// ApplyFeatureState 期望态差量同步：服务端独立计算差量并在单个事务内
// 按删除、新建、更新、重排的顺序应用
func (s *FeatureService) ApplyFeatureState(productID uint, desired []FeatureState) (FeatureDiff, error) {
	var applied FeatureDiff
	err := s.products.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		features := s.features.WithTx(tx)

		product, err := products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		current, err := features.ListByProduct(product.ID)
		if err != nil {
			return err
		}
		diff := ComputeFeatureDiff(current, desired)

		for _, featureID := range diff.Delete {
			if err := features.Delete(featureID); err != nil {
				return err
			}
		}
		if len(diff.Delete) > 0 {
			if err := features.CompactPositions(product.ID); err != nil {
				return err
			}
		}

		for _, state := range diff.Create {
			if _, err := createFeatureTx(features, product.ID, state); err != nil {
				return err
			}
		}

		for _, update := range diff.Update {
			feature, err := features.GetByID(update.ID)
			if err != nil {
				return err
			}
			if feature == nil || feature.ProductID != product.ID {
				return ErrNotFound
			}
			edits := UpdateFeatureInput{Title: update.Title}
			edits.CreateValues = update.Values.Create
			for _, state := range update.Values.Update {
				key := state.Key
				value := state.Value
				edits.UpdateValues = append(edits.UpdateValues, FeatureValueUpdateInput{
					ID:    state.ID,
					Key:   &key,
					Value: &value,
				})
			}
			edits.DeleteValueIDs = update.Values.Delete
			if err := applyFeatureEdits(features, feature, edits); err != nil {
				return err
			}
			for index, valueID := range update.Values.Reorder {
				value, err := features.GetValue(valueID)
				if err != nil {
					return err
				}
				if value == nil || value.FeatureID != feature.ID {
					return ErrNotFound
				}
				if value.Position != index {
					value.Position = index
					if err := features.UpdateValue(value); err != nil {
						return err
					}
				}
			}
		}

		for index, featureID := range diff.Reorder {
			feature, err := features.GetByID(featureID)
			if err != nil {
				return err
			}
			if feature == nil || feature.ProductID != product.ID {
				return ErrNotFound
			}
			if feature.Position != index {
				feature.Position = index
				feature.Values = nil
				if err := features.Update(feature); err != nil {
					return err
				}
			}
		}

		applied = diff
		return nil
	})
	if err != nil {
		return FeatureDiff{}, err
	}
	return applied, nil
}
