package repository

import (
	"testing"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedClient(t *testing.T, repo ClientRepository, taxID, name string) *model.Client {
	client := &model.Client{TaxID: taxID, ClientName: strPtr(name)}
	require.NoError(t, repo.Create(client))
	return client
}

func TestClientRepository_CreateDefaultsStatus(t *testing.T) {
	repo := NewClientRepository(setupRepositoryTest(t))

	client := seedClient(t, repo, "12-3456789", "Acme Corp")
	assert.NotZero(t, client.ID)

	found, err := repo.FindByTaxID("12-3456789")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultClientStatus, found.Status)
	assert.Equal(t, "Acme Corp", found.Name())
}

func TestClientRepository_DuplicateTaxID(t *testing.T) {
	repo := NewClientRepository(setupRepositoryTest(t))
	seedClient(t, repo, "12-3456789", "Acme Corp")

	err := repo.Create(&model.Client{TaxID: "12-3456789"})
	assert.Error(t, err)
}

func TestClientRepository_FindAllFilters(t *testing.T) {
	repo := NewClientRepository(setupRepositoryTest(t))
	seedClient(t, repo, "11-1111111", "Bravo Bakery")
	seedClient(t, repo, "22-2222222", "Alpha Logistics")
	inactive := seedClient(t, repo, "33-3333333", "Charlie Cafe")
	inactive.Status = "Inactive"
	require.NoError(t, repo.Update(inactive))

	tests := []struct {
		name   string
		filter ClientFilter
		want   []string
	}{
		{name: "All sorted by name", filter: ClientFilter{}, want: []string{"22-2222222", "11-1111111", "33-3333333"}},
		{name: "Search by name", filter: ClientFilter{Search: "bakery"}, want: []string{"11-1111111"}},
		{name: "Search by tax id", filter: ClientFilter{Search: "22-22"}, want: []string{"22-2222222"}},
		{name: "Status", filter: ClientFilter{Status: "Inactive"}, want: []string{"33-3333333"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients, err := repo.FindAll(tt.filter)
			require.NoError(t, err)
			var got []string
			for _, c := range clients {
				got = append(got, c.TaxID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientRepository_DeleteCascade(t *testing.T) {
	testDB := setupRepositoryTest(t)
	clients := NewClientRepository(testDB)
	benefits := NewBenefitRepository(testDB)
	commercial := NewCommercialRepository(testDB)

	client := seedClient(t, clients, "12-3456789", "Acme Corp")
	other := seedClient(t, clients, "98-7654321", "Other Co")

	benefit := &model.EmployeeBenefit{TaxID: client.TaxID}
	benefit.SetPlans([]model.BenefitPlan{{PlanType: "medical", Carrier: strPtr("Aetna")}})
	require.NoError(t, benefits.Create(benefit))

	record := &model.CommercialInsurance{TaxID: client.TaxID}
	record.SetPlans([]model.CommercialPlan{{PlanType: "cyber", Carrier: strPtr("Beazley")}})
	require.NoError(t, commercial.Create(record))

	otherBenefit := &model.EmployeeBenefit{TaxID: other.TaxID}
	require.NoError(t, benefits.Create(otherBenefit))

	require.NoError(t, clients.DeleteCascade(client))

	_, err := clients.FindByID(client.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var planCount int64
	testDB.Model(&model.BenefitPlan{}).Count(&planCount)
	assert.Zero(t, planCount)
	testDB.Model(&model.CommercialPlan{}).Count(&planCount)
	assert.Zero(t, planCount)

	remaining, err := benefits.FindAll(BenefitFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.TaxID, remaining[0].TaxID)
}

func TestClientRepository_CrossSellCounts(t *testing.T) {
	testDB := setupRepositoryTest(t)
	clients := NewClientRepository(testDB)
	benefits := NewBenefitRepository(testDB)

	a := seedClient(t, clients, "11-1111111", "A")
	seedClient(t, clients, "22-2222222", "B")
	require.NoError(t, benefits.Create(&model.EmployeeBenefit{TaxID: a.TaxID}))

	total, err := clients.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	withoutBenefits, err := clients.CountWithoutBenefits()
	require.NoError(t, err)
	assert.Equal(t, int64(1), withoutBenefits)

	withoutCommercial, err := clients.CountWithoutCommercial()
	require.NoError(t, err)
	assert.Equal(t, int64(2), withoutCommercial)
}

func TestClientRepository_RenameTaxID(t *testing.T) {
	testDB := setupRepositoryTest(t)
	clients := NewClientRepository(testDB)
	benefits := NewBenefitRepository(testDB)

	client := seedClient(t, clients, "11-1111111", "A")
	require.NoError(t, benefits.Create(&model.EmployeeBenefit{TaxID: client.TaxID}))

	require.NoError(t, clients.RenameTaxID("11-1111111", "11-0000000"))

	found, err := benefits.FindFirstByTaxID("11-0000000")
	require.NoError(t, err)
	assert.Equal(t, "11-0000000", found.TaxID)
}
