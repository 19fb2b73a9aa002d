package service

import (
	"strings"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/logger"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"
)

// variantTuple 一个变体的槽位值元组（未占用槽位为 nil）
type variantTuple [constants.MaxProductOptions]*string

// key 元组的比较键，nil 与空串区分开
func (t variantTuple) key() string {
	parts := make([]string, 0, len(t))
	for _, value := range t {
		if value == nil {
			parts = append(parts, "\x00nil")
		} else {
			parts = append(parts, "\x01"+*value)
		}
	}
	return strings.Join(parts, "\x02")
}

// tupleOf 从变体记录提取元组
func tupleOf(variant *models.Variant) variantTuple {
	var tuple variantTuple
	for slot := range tuple {
		tuple[slot] = variant.SlotValue(slot)
	}
	return tuple
}

// desiredTuples 按规格值做笛卡尔积，得到期望的变体元组集合。
// 零规格商品没有变体；任一规格没有值时矩阵同样为空。
// 值写入规格的 Slot 槽位，与规格的展示 position 无关。
func desiredTuples(options []models.Option) []variantTuple {
	if len(options) == 0 {
		return nil
	}
	tuples := []variantTuple{{}}
	for _, option := range options {
		if len(option.Values) == 0 {
			return nil
		}
		next := make([]variantTuple, 0, len(tuples)*len(option.Values))
		for _, tuple := range tuples {
			for _, value := range option.Values {
				title := value.Title
				expanded := tuple
				expanded[option.Slot] = &title
				next = append(next, expanded)
			}
		}
		tuples = next
	}
	return tuples
}

// matrixRepos 矩阵同步涉及的事务内仓库集合
type matrixRepos struct {
	options  repository.OptionRepository
	variants repository.VariantRepository
	offers   repository.OfferRepository
	images   repository.ImageRepository
}

// synchronizeVariants 将商品的变体集合收敛到规格定义的期望矩阵：
// 缺失的元组补建（继承商品默认 SKU/条码），多余的变体删除并把其上的
// 非冻结 Offer 打为 NO_MATCH，最后做一次孤儿回收与标题刷新。
// 必须运行在触发它的规格变更同一事务内。
func synchronizeVariants(repos matrixRepos, product *models.Product) error {
	options, err := repos.options.ListByProduct(product.ID)
	if err != nil {
		return err
	}

	desired := desiredTuples(options)
	existing, err := repos.variants.ListByProduct(product.ID)
	if err != nil {
		return err
	}

	existingKeys := make(map[string]bool, len(existing))
	for i := range existing {
		existingKeys[tupleOf(&existing[i]).key()] = true
	}

	desiredKeys := make(map[string]bool, len(desired))
	toCreate := make([]models.Variant, 0)
	for _, tuple := range desired {
		desiredKeys[tuple.key()] = true
		if existingKeys[tuple.key()] {
			continue
		}
		variant := models.Variant{
			ProductID: product.ID,
			SKU:       product.SKU,
			Barcode:   product.Barcode,
		}
		for slot, value := range tuple {
			variant.SetSlotValue(slot, value)
		}
		toCreate = append(toCreate, variant)
	}

	obsolete := make([]uint, 0)
	for i := range existing {
		if !desiredKeys[tupleOf(&existing[i]).key()] {
			obsolete = append(obsolete, existing[i].ID)
		}
	}

	if len(obsolete) > 0 {
		orphaned, err := repos.offers.OrphanByVariantIDs(obsolete)
		if err != nil {
			return err
		}
		if err := repos.images.DeleteByVariantIDs(obsolete); err != nil {
			return err
		}
		if err := repos.variants.DeleteByIDs(obsolete); err != nil {
			return err
		}
		logger.Infow("variant_matrix_pruned",
			"product_id", product.ID,
			"deleted_variants", len(obsolete),
			"orphaned_offers", orphaned,
		)
	}

	if err := repos.variants.CreateBatch(toCreate); err != nil {
		return err
	}

	if _, err := repos.offers.ReconcileOrphans(product.ID); err != nil {
		return err
	}

	return refreshVariantTitles(repos, product.ID, options)
}

// refreshVariantTitles 重算存活变体的展示标题并传播到非终态 Offer
func refreshVariantTitles(repos matrixRepos, productID uint, options []models.Option) error {
	variants, err := repos.variants.ListByProduct(productID)
	if err != nil {
		return err
	}
	for i := range variants {
		title := variants[i].Title(options)
		if err := repos.offers.UpdateVariantTitle(variants[i].ID, title); err != nil {
			return err
		}
	}
	return nil
}
