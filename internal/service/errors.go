package service

import (
	"errors"

	"github.com/restock-next/internal/repository"
)

// 业务沉淀错误，handler 层用 errors.Is 映射为响应码
var (
	// ErrNotFound 目标资源不存在
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput 输入参数非法
	ErrInvalidInput = errors.New("invalid input")

	// ErrHandleExists 商品 handle 已存在
	ErrHandleExists = errors.New("product handle already exists")
	// ErrMetafieldKeyExists 商品元字段键已存在
	ErrMetafieldKeyExists = errors.New("metafield key already exists")

	// ErrOptionLimitReached 商品规格数量已达上限
	ErrOptionLimitReached = errors.New("product option limit reached")
	// ErrOptionTitleExists 同商品内规格名重复
	ErrOptionTitleExists = errors.New("option title already exists")
	// ErrOptionValueTitleExists 同规格内规格值重复
	ErrOptionValueTitleExists = errors.New("option value title already exists")
	// ErrVariantExists 槽位值元组重复
	ErrVariantExists = errors.New("variant with same values already exists")

	// ErrFeatureTitleExists 同商品内特性名重复
	ErrFeatureTitleExists = errors.New("feature title already exists")

	// ErrOfferTerminal 终态 Offer 拒绝任何修改（不可篡改销售历史）
	ErrOfferTerminal = errors.New("offer in terminal status is immutable")
	// ErrOfferStatusWithoutVariant NO_MATCH Offer 未挂回变体时拒绝显式改状态
	ErrOfferStatusWithoutVariant = errors.New("offer status change requires a variant")
	// ErrOfferVariantRequired 非 NO_MATCH Offer 必须关联变体
	ErrOfferVariantRequired = errors.New("offer requires a variant")
	// ErrNoDefaultDeliveryProfile 系统缺少默认交付档案（配置性故障）
	ErrNoDefaultDeliveryProfile = errors.New("default delivery profile is missing")
	// ErrDeliveryProfileInUse 交付档案仍被 Offer 引用
	ErrDeliveryProfileInUse = errors.New("delivery profile is referenced by offers")
	// ErrDefaultProfileUndeletable 默认交付档案不可删除
	ErrDefaultProfileUndeletable = errors.New("default delivery profile cannot be deleted")

	// ErrInvalidCredentials 账号或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists 邮箱已注册
	ErrEmailExists = errors.New("email already exists")

	// ErrPriceSyncDisabled 价格同步功能未启用
	ErrPriceSyncDisabled = errors.New("price sync is disabled")
)

// mapPositionError 仓库层的位次哨兵换成业务哨兵，其余错误原样透传
func mapPositionError(err error) error {
	if errors.Is(err, repository.ErrInvalidPosition) {
		return ErrInvalidInput
	}
	return err
}
