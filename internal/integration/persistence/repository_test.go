package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

// newTestDB opens an isolated in-memory database with the summary schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSQL, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	dbSQL.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbSQL.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestBankTransactionRepository_FindByAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows := []*entity.BankTransaction{
		{BankTxID: "tx-2", ClientID: "client-1", BankAccountID: "acc-1", Date: valueobject.NewDate(2024, 1, 5), Amount: decimal.NewFromInt(500)},
		{
			BankTxID: "tx-1", ClientID: "client-1", BankAccountID: "acc-1", Date: valueobject.NewDate(2024, 1, 2), Amount: decimal.RequireFromString("-200.50"),
			CategorizedAs: &entity.Categorization{Group: entity.LedgerGroupGEA, Subcategory: "cat-1", Auto: true},
			DfcCategory:   "Despesas",
		},
		{BankTxID: "tx-3", ClientID: "client-1", BankAccountID: "acc-2", Date: valueobject.NewDate(2024, 1, 3), Amount: decimal.NewFromInt(1)},
	}
	for _, row := range rows {
		if err := db.Create(model.BankTransactionFromEntity(row)).Error; err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}

	repo := NewBankTransactionRepository(db)
	got, err := repo.FindByAccount(ctx, "client-1", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].BankTxID != "tx-1" || !got[0].Date.Equal(valueobject.NewDate(2024, 1, 2)) {
		t.Errorf("expected tx-1 on 02/01/2024 first, got %s on %s", got[0].BankTxID, got[0].Date)
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("-200.50")) {
		t.Errorf("expected amount -200.50, got %s", got[0].Amount)
	}
	if got[0].CategorizedAs == nil || got[0].CategorizedAs.Group != entity.LedgerGroupGEA || !got[0].CategorizedAs.Auto {
		t.Errorf("unexpected categorization %+v", got[0].CategorizedAs)
	}
	if got[1].CategorizedAs != nil {
		t.Errorf("expected no categorization, got %+v", got[1].CategorizedAs)
	}
}

func TestSaleLegRepository_FindByClient(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	leg := &entity.SaleLeg{
		ID:       "leg-1",
		ClientID: "client-1",
		SettlementPlan: []entity.SettlementParcel{
			{N: 2, Due: valueobject.NewDate(2024, 2, 10), Expected: decimal.NewFromInt(300)},
			{N: 1, Due: valueobject.NewDate(2024, 1, 10), Expected: decimal.NewFromInt(300), ReceivedTxID: "tx-1"},
		},
	}
	if err := db.Create(model.SaleLegFromEntity(leg)).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	got, err := NewSaleLegRepository(db).FindByClient(ctx, "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 || len(got[0].SettlementPlan) != 2 {
		t.Fatalf("expected one leg with two parcels, got %+v", got)
	}
	plan := got[0].SettlementPlan
	if plan[0].N != 1 || plan[1].N != 2 {
		t.Errorf("expected parcels ordered by number, got %d, %d", plan[0].N, plan[1].N)
	}
	if plan[0].IsOutstanding() || !plan[1].IsOutstanding() {
		t.Error("expected only the second parcel to be outstanding")
	}
	if !plan[1].Due.Equal(valueobject.NewDate(2024, 2, 10)) {
		t.Errorf("expected due 10/02/2024, got %s", plan[1].Due)
	}

	empty, err := NewSaleLegRepository(db).FindByClient(ctx, "client-2")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected no legs for another client, got %v (%v)", empty, err)
	}
}

func TestClientAndAccountRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.Create(model.ClientFromEntity(&entity.Client{ID: "client-1", OrganizationID: "org-1", Name: "Acme", Type: entity.ClientTypePJ}))
	db.Create(model.BankAccountFromEntity(&entity.BankAccount{ID: "acc-1", OrganizationID: "org-1", ClientID: "client-1", IsActive: true}))
	db.Create(model.BankAccountFromEntity(&entity.BankAccount{ID: "acc-2", OrganizationID: "org-1", ClientID: "client-1", IsActive: false}))
	db.Create(model.BankAccountFromEntity(&entity.BankAccount{ID: "acc-3", OrganizationID: "org-2", ClientID: "client-1", IsActive: true}))

	clients, err := NewClientRepository(db).FindAll(ctx)
	if err != nil || len(clients) != 1 || clients[0].Type != entity.ClientTypePJ {
		t.Fatalf("unexpected clients %+v (%v)", clients, err)
	}

	accounts, err := NewBankAccountRepository(db).FindByClient(ctx, "org-1", "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts scoped to the organization, got %d", len(accounts))
	}
	if !accounts[0].IsActive || accounts[1].IsActive {
		t.Errorf("expected acc-1 active and acc-2 inactive, got %+v %+v", accounts[0], accounts[1])
	}
}

func TestPjCategoryRepository_FindByClient(t *testing.T) {
	db := newTestDB(t)

	db.Create(&model.PjCategoryModel{ID: "cat-2", OrganizationID: "org-1", ClientID: "client-1", Name: "Tarifas", Group: "FINANCEIRAS"})
	db.Create(&model.PjCategoryModel{ID: "cat-1", OrganizationID: "org-1", ClientID: "client-1", Name: "Aluguel", Group: "GEA"})

	got, err := NewPjCategoryRepository(db).FindByClient(context.Background(), "org-1", "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Aluguel" || got[0].Group != entity.LedgerGroupGEA {
		t.Errorf("unexpected categories %+v", got)
	}
}

func testSnapshot(window string, totalIn float64) *entity.BankSummarySnapshot {
	coverage := 30
	return &entity.BankSummarySnapshot{
		ID:             uuid.New(),
		OrganizationID: "org-1",
		ClientID:       "client-1",
		BankAccountID:  "acc-1",
		Window:         window,
		Totals:         map[string]any{"totalIn": totalIn},
		KPIs:           map[string]any{},
		Metadata: entity.SnapshotMetadata{
			Version:      entity.SnapshotMetadataVersion,
			CoverageDays: &coverage,
		},
		RefreshedAt: time.Date(2024, 1, 31, 3, 0, 0, 0, time.UTC),
	}
}

func TestBankSummarySnapshotRepository_ReplaceForAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewBankSummarySnapshotRepository(db)

	first := []*entity.BankSummarySnapshot{testSnapshot("30d", 1), testSnapshot("90d", 2), testSnapshot("365d", 3)}
	if err := repo.ReplaceForAccount(ctx, "org-1", "client-1", "acc-1", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := []*entity.BankSummarySnapshot{testSnapshot("30d", 10), testSnapshot("90d", 20), testSnapshot("365d", 30)}
	if err := repo.ReplaceForAccount(ctx, "org-1", "client-1", "acc-1", second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 snapshots after two refreshes, got %d", len(got))
	}
	for _, s := range got {
		if s.Totals["totalIn"] == nil {
			t.Errorf("expected totals for %s", s.Window)
		}
		if s.Metadata.CoverageDays == nil || *s.Metadata.CoverageDays != 30 {
			t.Errorf("expected coverage metadata for %s", s.Window)
		}
	}

	other, err := repo.FindByAccount(ctx, "org-2", "client-1", "acc-1")
	if err != nil || len(other) != 0 {
		t.Errorf("expected no snapshots for another organization, got %v (%v)", other, err)
	}
}
