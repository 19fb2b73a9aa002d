package constants

// Offer 状态常量
const (
	OfferStatusActive    = "ACTIVE"
	OfferStatusNoMatch   = "NO_MATCH"
	OfferStatusSold      = "SOLD"
	OfferStatusReturning = "RETURNING"
)

// OfferTerminalStatuses 终态：进入后价格、标题与关联全部冻结
var OfferTerminalStatuses = []string{OfferStatusSold, OfferStatusReturning}

// OfferFrozenStatuses 不参与孤儿回收与标题传播的状态
var OfferFrozenStatuses = []string{OfferStatusSold, OfferStatusReturning, OfferStatusNoMatch}

// 规格矩阵常量
const (
	MaxProductOptions = 3 // 每个商品最多 3 个规格槽位（0..2）
)

// VariantTitleSeparator 变体标题分隔符（按规格 position 顺序拼接）
const VariantTitleSeparator = " | "

// 商品元字段键常量（价格同步使用）
const (
	MetafieldKeyPriceFactor = "pfactor"
	MetafieldKeyPriceAmount = "pamount"
)

// 用户角色常量
const (
	UserRoleSeller   = "seller"
	UserRoleProvider = "provider"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault       = "default"
	TaskOfferPriceSync = "offer:price_sync"
	TaskOfferReconcile = "offer:reconcile"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "rn"
)
