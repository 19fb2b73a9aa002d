package service

import (
	"errors"
	"testing"

	"github.com/restock-next/internal/models"
)

func TestComputeFeatureDiffCreateUpdateDelete(t *testing.T) {
	current := []models.Feature{
		{ID: 1, Title: "Fit", Values: []models.FeatureValue{{ID: 10, Key: "width", Value: "regular"}}},
		{ID: 2, Title: "Care", Values: []models.FeatureValue{{ID: 20, Key: "wash", Value: "cold"}}},
	}
	desired := []FeatureState{
		{ID: 1, Title: "Fit & Sizing", Values: []FeatureValueState{{ID: 10, Key: "width", Value: "regular"}}},
		{Title: "Materials", Values: []FeatureValueState{{Key: "upper", Value: "leather"}}},
	}

	diff := ComputeFeatureDiff(current, desired)

	if len(diff.Create) != 1 || diff.Create[0].Title != "Materials" {
		t.Fatalf("unexpected create set: %+v", diff.Create)
	}
	if len(diff.Update) != 1 || diff.Update[0].ID != 1 {
		t.Fatalf("unexpected update set: %+v", diff.Update)
	}
	if diff.Update[0].Title == nil || *diff.Update[0].Title != "Fit & Sizing" {
		t.Fatalf("expected title update, got %+v", diff.Update[0])
	}
	if len(diff.Delete) != 1 || diff.Delete[0] != 2 {
		t.Fatalf("unexpected delete set: %+v", diff.Delete)
	}
	if len(diff.Reorder) != 0 {
		t.Fatalf("expected no reorder when membership changed, got %+v", diff.Reorder)
	}
}

func TestComputeFeatureDiffReorderOnlyOnSameMembership(t *testing.T) {
	current := []models.Feature{
		{ID: 1, Title: "Fit"},
		{ID: 2, Title: "Care"},
		{ID: 3, Title: "Materials"},
	}

	// 成员一致、顺序不同：给出重排
	diff := ComputeFeatureDiff(current, []FeatureState{
		{ID: 3, Title: "Materials"},
		{ID: 1, Title: "Fit"},
		{ID: 2, Title: "Care"},
	})
	if len(diff.Reorder) != 3 || diff.Reorder[0] != 3 || diff.Reorder[1] != 1 || diff.Reorder[2] != 2 {
		t.Fatalf("unexpected reorder: %+v", diff.Reorder)
	}
	if len(diff.Create)+len(diff.Update)+len(diff.Delete) != 0 {
		t.Fatalf("expected pure reorder, got %+v", diff)
	}

	// 顺序一致：无任何差量
	diff = ComputeFeatureDiff(current, []FeatureState{
		{ID: 1, Title: "Fit"},
		{ID: 2, Title: "Care"},
		{ID: 3, Title: "Materials"},
	})
	if !diff.IsEmpty() {
		t.Fatalf("expected empty diff, got %+v", diff)
	}

	// 成员不同：退化为删除加新建，不给出重排
	diff = ComputeFeatureDiff(current, []FeatureState{
		{ID: 2, Title: "Care"},
		{ID: 1, Title: "Fit"},
	})
	if len(diff.Reorder) != 0 {
		t.Fatalf("membership shrank, expected no reorder, got %+v", diff.Reorder)
	}
	if len(diff.Delete) != 1 || diff.Delete[0] != 3 {
		t.Fatalf("unexpected delete set: %+v", diff.Delete)
	}
}

func TestComputeFeatureDiffNestedValues(t *testing.T) {
	current := []models.Feature{
		{ID: 1, Title: "Fit", Values: []models.FeatureValue{
			{ID: 10, Key: "width", Value: "regular"},
			{ID: 11, Key: "length", Value: "true to size"},
		}},
	}
	desired := []FeatureState{
		{ID: 1, Title: "Fit", Values: []FeatureValueState{
			{ID: 11, Key: "length", Value: "runs small"},
			{ID: 10, Key: "width", Value: "regular"},
		}},
	}

	diff := ComputeFeatureDiff(current, desired)
	if len(diff.Update) != 1 {
		t.Fatalf("expected one feature update, got %+v", diff)
	}
	values := diff.Update[0].Values
	if len(values.Update) != 1 || values.Update[0].ID != 11 || values.Update[0].Value != "runs small" {
		t.Fatalf("unexpected value update: %+v", values.Update)
	}
	if len(values.Reorder) != 2 || values.Reorder[0] != 11 || values.Reorder[1] != 10 {
		t.Fatalf("unexpected value reorder: %+v", values.Reorder)
	}
}

func TestCreateFeatureDuplicateTitle(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-low")

	if _, err := env.features.CreateFeature(product.ID, "Fit", nil); err != nil {
		t.Fatalf("create feature failed: %v", err)
	}
	_, err := env.features.CreateFeature(product.ID, "Fit", nil)
	if !errors.Is(err, ErrFeatureTitleExists) {
		t.Fatalf("expected ErrFeatureTitleExists, got %v", err)
	}
}

func TestApplyFeatureStateEndToEnd(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "jordan-3")

	fit, err := env.features.CreateFeature(product.ID, "Fit", []FeatureValueState{
		{Key: "width", Value: "regular"},
		{Key: "length", Value: "true to size"},
	})
	if err != nil {
		t.Fatalf("create feature failed: %v", err)
	}
	care, err := env.features.CreateFeature(product.ID, "Care", []FeatureValueState{
		{Key: "wash", Value: "cold"},
	})
	if err != nil {
		t.Fatalf("create feature failed: %v", err)
	}

	desired := []FeatureState{
		{ID: fit.ID, Title: "Fit & Sizing", Values: []FeatureValueState{
			{ID: fit.Values[1].ID, Key: "length", Value: "runs small"},
			{ID: fit.Values[0].ID, Key: "width", Value: "regular"},
		}},
		{Title: "Materials", Values: []FeatureValueState{
			{Key: "upper", Value: "leather"},
		}},
	}

	applied, err := env.features.ApplyFeatureState(product.ID, desired)
	if err != nil {
		t.Fatalf("apply feature state failed: %v", err)
	}
	if len(applied.Delete) != 1 || applied.Delete[0] != care.ID {
		t.Fatalf("expected Care deleted, got %+v", applied.Delete)
	}
	if len(applied.Create) != 1 || len(applied.Update) != 1 {
		t.Fatalf("unexpected applied diff: %+v", applied)
	}

	features, err := env.features.ListByProduct(product.ID)
	if err != nil {
		t.Fatalf("list features failed: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}
	for i := range features {
		if features[i].Position != i {
			t.Fatalf("positions must stay dense: %+v", features)
		}
	}

	var renamed *models.Feature
	for i := range features {
		if features[i].ID == fit.ID {
			renamed = &features[i]
		}
	}
	if renamed == nil || renamed.Title != "Fit & Sizing" {
		t.Fatalf("expected renamed feature, got %+v", renamed)
	}
	if len(renamed.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(renamed.Values))
	}
	if renamed.Values[0].Key != "length" || renamed.Values[0].Value != "runs small" {
		t.Fatalf("expected reordered and updated value first, got %+v", renamed.Values)
	}

	// 幂等：再次应用同一期望态不产生差量
	desired[0].Values[0].ID = renamed.Values[0].ID
	desired[0].Values[1].ID = renamed.Values[1].ID
	for i := range features {
		if features[i].Title == "Materials" {
			desired[1].ID = features[i].ID
			desired[1].Values[0].ID = features[i].Values[0].ID
		}
	}
	applied, err = env.features.ApplyFeatureState(product.ID, desired)
	if err != nil {
		t.Fatalf("reapply feature state failed: %v", err)
	}
	if !applied.IsEmpty() {
		t.Fatalf("expected empty diff on reapply, got %+v", applied)
	}
}

func TestDeleteFeatureCompactsPositions(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "air-max-95")

	first, err := env.features.CreateFeature(product.ID, "Fit", nil)
	if err != nil {
		t.Fatalf("create feature failed: %v", err)
	}
	if _, err := env.features.CreateFeature(product.ID, "Care", nil); err != nil {
		t.Fatalf("create feature failed: %v", err)
	}
	if _, err := env.features.CreateFeature(product.ID, "Materials", nil); err != nil {
		t.Fatalf("create feature failed: %v", err)
	}

	if err := env.features.DeleteFeature(first.ID); err != nil {
		t.Fatalf("delete feature failed: %v", err)
	}

	features, err := env.features.ListByProduct(product.ID)
	if err != nil {
		t.Fatalf("list features failed: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}
	if features[0].Position != 0 || features[1].Position != 1 {
		t.Fatalf("expected dense positions, got %d/%d", features[0].Position, features[1].Position)
	}
}
