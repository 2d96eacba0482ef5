package estimate

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"coldstore-api/internal/category"
	"coldstore-api/internal/item"
	"coldstore-api/internal/provider"
)

type fixture struct {
	svc      *EstimateService
	item     item.DataItem
	provider provider.StorageProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&category.Category{}, &item.DataItem{},
		&provider.StorageProvider{}, &CostEstimate{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cat := category.Category{Name: "Archive"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	size := 100.0
	di := item.DataItem{
		Name:           "Research Corpus",
		CategoryID:     cat.ID,
		SizeEstimateGB: &size,
		Priority:       item.PriorityMedium,
		Status:         item.StatusPlanned,
	}
	if err := db.Create(&di).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	sp := provider.StorageProvider{
		Name:               "Penny Store",
		ProviderType:       provider.TypeCloud,
		CostPerGBMonthly:   0.01,
		RetrievalCostPerGB: 0.05,
		IsActive:           true,
	}
	if err := db.Create(&sp).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}

	return &fixture{svc: &EstimateService{DB: db}, item: di, provider: sp}
}

func (f *fixture) addProvider(t *testing.T, name string, costPerGB float64) provider.StorageProvider {
	t.Helper()
	sp := provider.StorageProvider{
		Name:             name,
		ProviderType:     provider.TypeCloud,
		CostPerGBMonthly: costPerGB,
		IsActive:         true,
	}
	if err := f.svc.DB.Create(&sp).Error; err != nil {
		t.Fatalf("seed provider %s: %v", name, err)
	}
	return sp
}

func floatPtr(f float64) *float64 { return &f }

func boolPtr(b bool) *bool { return &b }

func TestCreate_DerivesCostsFromProviderRates(t *testing.T) {
	f := newFixture(t)

	ce, err := f.svc.Create(EstimateInput{
		DataItemID:         f.item.ID,
		ProviderID:         f.provider.ID,
		RetrievalFrequency: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Size falls back to the item's own 100GB estimate.
	if ce.EstimatedSizeGB != 100 {
		t.Fatalf("expected size 100, got %v", ce.EstimatedSizeGB)
	}
	if ce.MonthlyStorageCost != 1.00 {
		t.Fatalf("monthly: want 1.00, got %v", ce.MonthlyStorageCost)
	}
	if ce.AnnualStorageCost != 12.00 {
		t.Fatalf("annual: want 12.00, got %v", ce.AnnualStorageCost)
	}
	if ce.EstimatedRetrievalCost != 10.00 {
		t.Fatalf("retrieval: want 10.00, got %v", ce.EstimatedRetrievalCost)
	}
	if ce.TotalFirstYearCost() != 22.00 {
		t.Fatalf("total: want 22.00, got %v", ce.TotalFirstYearCost())
	}
}

func TestCreate_RejectsDuplicateActivePair(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// An inactive second estimate for the same pair is allowed.
	if _, err := f.svc.Create(EstimateInput{
		DataItemID: f.item.ID,
		ProviderID: f.provider.ID,
		IsActive:   boolPtr(false),
	}); err != nil {
		t.Fatalf("inactive duplicate should be allowed: %v", err)
	}

	if _, err := f.svc.Create(EstimateInput{DataItemID: 9999, ProviderID: f.provider.ID}); err == nil {
		t.Fatalf("expected error for unknown item")
	}
	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: 9999}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestRecalculate_PicksUpRateChanges(t *testing.T) {
	f := newFixture(t)

	ce, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ce.MonthlyStorageCost != 1.00 {
		t.Fatalf("monthly: want 1.00, got %v", ce.MonthlyStorageCost)
	}

	if err := f.svc.DB.Model(&provider.StorageProvider{}).
		Where("id = ?", f.provider.ID).
		Update("cost_per_gb_monthly", 0.02).Error; err != nil {
		t.Fatalf("reprice provider: %v", err)
	}

	view, err := f.svc.Recalculate(ce.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if view.MonthlyStorageCost != 2.00 {
		t.Fatalf("monthly after reprice: want 2.00, got %v", view.MonthlyStorageCost)
	}
	if view.TotalFirstYear != 24.00 {
		t.Fatalf("total after reprice: want 24.00, got %v", view.TotalFirstYear)
	}
}

func TestBulkRecalculate_ActiveOnly(t *testing.T) {
	f := newFixture(t)
	other := f.addProvider(t, "Dime Store", 0.10)

	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	inactive, err := f.svc.Create(EstimateInput{
		DataItemID: f.item.ID,
		ProviderID: other.ID,
		IsActive:   boolPtr(false),
	})
	if err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	result, err := f.svc.BulkRecalculate()
	if err != nil {
		t.Fatalf("bulk recalculate: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Fatalf("expected 1 updated, got %d", result.UpdatedCount)
	}
	if result.Message != "Recalculated costs for 1 estimate(s)" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	_ = inactive
}

func TestSummary_TotalsAndProviderBreakdown(t *testing.T) {
	f := newFixture(t)
	other := f.addProvider(t, "Dime Store", 0.10)

	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: other.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	summary, err := f.svc.GetSummary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.Totals.TotalEstimates != 2 {
		t.Fatalf("expected 2 estimates, got %d", summary.Totals.TotalEstimates)
	}
	// 100GB at 0.01 and 0.10 per GB-month.
	if summary.Totals.TotalMonthlyCost != 11.00 {
		t.Fatalf("total monthly: want 11.00, got %v", summary.Totals.TotalMonthlyCost)
	}
	if summary.Totals.TotalAnnualCost != 132.00 {
		t.Fatalf("total annual: want 132.00, got %v", summary.Totals.TotalAnnualCost)
	}
	if summary.Totals.AverageMonthlyCost != 5.50 {
		t.Fatalf("avg monthly: want 5.50, got %v", summary.Totals.AverageMonthlyCost)
	}
	if summary.Totals.TotalEstimatedSizeGB != 200 {
		t.Fatalf("total size: want 200, got %v", summary.Totals.TotalEstimatedSizeGB)
	}

	if len(summary.ByProvider) != 2 {
		t.Fatalf("expected 2 provider rows, got %d", len(summary.ByProvider))
	}
	if summary.ByProvider[0].ProviderName != "Dime Store" {
		t.Fatalf("expected biggest annual spend first: %+v", summary.ByProvider)
	}
}

func TestComparison_NamesCheapestProvider(t *testing.T) {
	f := newFixture(t)
	other := f.addProvider(t, "Dime Store", 0.10)

	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: other.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	comparison, err := f.svc.GetComparison(f.item.ID)
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}

	if comparison.DataItem.Name != "Research Corpus" {
		t.Fatalf("unexpected item ref: %+v", comparison.DataItem)
	}
	if len(comparison.Estimates) != 2 {
		t.Fatalf("expected 2 estimates, got %d", len(comparison.Estimates))
	}
	if comparison.Cheapest.Name != "Penny Store" {
		t.Fatalf("expected Penny Store cheapest, got %+v", comparison.Cheapest)
	}
	if comparison.Cheapest.TotalFirstYearCost != 12.00 {
		t.Fatalf("cheapest total: want 12.00, got %v", comparison.Cheapest.TotalFirstYearCost)
	}

	if _, err := f.svc.GetComparison(9999); err != ErrNoEstimates {
		t.Fatalf("expected ErrNoEstimates, got %v", err)
	}
}

func TestUpdate_RecomputesAndGuardsDuplicates(t *testing.T) {
	f := newFixture(t)

	ce, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Update(ce.ID, EstimateInput{
		EstimatedSizeGB:    floatPtr(200),
		RetrievalFrequency: 1,
		Notes:              "doubled scope",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MonthlyStorageCost != 2.00 {
		t.Fatalf("monthly after resize: want 2.00, got %v", updated.MonthlyStorageCost)
	}
	if updated.EstimatedRetrievalCost != 10.00 {
		t.Fatalf("retrieval after resize: want 10.00, got %v", updated.EstimatedRetrievalCost)
	}
	if updated.Notes != "doubled scope" {
		t.Fatalf("notes not applied: %q", updated.Notes)
	}

	// Deactivate, add a fresh active estimate for the pair, then try to
	// reactivate the old one.
	if _, err := f.svc.Update(ce.ID, EstimateInput{IsActive: boolPtr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.svc.Create(EstimateInput{DataItemID: f.item.ID, ProviderID: f.provider.ID}); err != nil {
		t.Fatalf("create replacement: %v", err)
	}
	if _, err := f.svc.Update(ce.ID, EstimateInput{IsActive: boolPtr(true)}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate on reactivation, got %v", err)
	}
}

func TestActualCosts_RecordedAndCompared(t *testing.T) {
	f := newFixture(t)

	ce, err := f.svc.Create(EstimateInput{
		DataItemID:          f.item.ID,
		ProviderID:          f.provider.ID,
		ActualMonthlyCost:   floatPtr(1.25),
		ActualRetrievalCost: floatPtr(8.0),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ce.ActualRetrievalCost == nil || *ce.ActualRetrievalCost != 8.0 {
		t.Fatalf("expected actual retrieval cost 8.0, got %v", ce.ActualRetrievalCost)
	}

	view, err := f.svc.GetByID(ce.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	cmp := view.CostComparison
	if cmp == nil {
		t.Fatalf("expected a cost comparison once actual spend is recorded")
	}
	if cmp.EstimatedMonthly != 1.00 || cmp.ActualMonthly != 1.25 {
		t.Fatalf("comparison figures: %+v", cmp)
	}
	if cmp.Difference != 0.25 {
		t.Fatalf("difference: want 0.25, got %v", cmp.Difference)
	}
	if cmp.PercentDifference != 25 {
		t.Fatalf("percent difference: want 25, got %v", cmp.PercentDifference)
	}

	updated, err := f.svc.Update(ce.ID, EstimateInput{
		DataItemID:          ce.DataItemID,
		ProviderID:          ce.ProviderID,
		ActualRetrievalCost: floatPtr(9.5),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ActualRetrievalCost == nil || *updated.ActualRetrievalCost != 9.5 {
		t.Fatalf("expected actual retrieval cost 9.5, got %v", updated.ActualRetrievalCost)
	}
}

func TestBuildView_NoComparisonWithoutActuals(t *testing.T) {
	f := newFixture(t)

	ce, err := f.svc.Create(EstimateInput{
		DataItemID: f.item.ID,
		ProviderID: f.provider.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	view, err := f.svc.GetByID(ce.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.CostComparison != nil {
		t.Fatalf("expected no comparison, got %+v", view.CostComparison)
	}
}
