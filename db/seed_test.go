package db

import (
	"testing"

	"github.com/rolo-dev/rolo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocations(t *testing.T) {
	locations, err := ParseLocations(defaultLocations)
	require.NoError(t, err)
	require.NotEmpty(t, locations)

	for _, l := range locations {
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.District)
		assert.Positive(t, l.Fare)
	}

	_, err = ParseLocations([]byte("locations:\n  - name: Nowhere\n"))
	assert.Error(t, err)

	_, err = ParseLocations([]byte("locations: [unterminated"))
	assert.Error(t, err)
}

func TestSeedLocationsOnlyWhenEmpty(t *testing.T) {
	conn, err := Connect("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, MigrateDatabase(conn))
	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	})

	require.NoError(t, SeedLocations(conn))

	var count int64
	require.NoError(t, conn.Model(&models.DeliveryLocation{}).Count(&count).Error)
	expected, _ := ParseLocations(defaultLocations)
	assert.Equal(t, int64(len(expected)), count)

	require.NoError(t, SeedLocations(conn))
	require.NoError(t, conn.Model(&models.DeliveryLocation{}).Count(&count).Error)
	assert.Equal(t, int64(len(expected)), count)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect("mysql", "whatever", false)
	assert.Error(t, err)
}
