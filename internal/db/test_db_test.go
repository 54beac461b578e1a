package db

import (
	"testing"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_MigratesEveryModel(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	for _, m := range Models() {
		assert.True(t, testDB.Migrator().HasTable(m), "%T", m)
	}
}

func TestTruncateAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, testDB.Create(&model.Client{TaxID: "12-3456789", Status: model.DefaultClientStatus}).Error)
	require.NoError(t, testDB.Create(&model.EmployeeBenefit{TaxID: "12-3456789"}).Error)
	require.NoError(t, testDB.Create(&model.Feedback{Subject: "Slow export", Type: model.FeedbackBug, Status: model.FeedbackNew}).Error)

	require.NoError(t, TruncateAllTables(testDB))

	var clients, benefits, feedback int64
	testDB.Model(&model.Client{}).Count(&clients)
	testDB.Model(&model.EmployeeBenefit{}).Count(&benefits)
	testDB.Model(&model.Feedback{}).Count(&feedback)
	assert.Zero(t, clients)
	assert.Zero(t, benefits)
	assert.Zero(t, feedback)
}
