package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agrohub-ai/models"
)

func TestClusterRegionsEmpty(t *testing.T) {
	heatmap := ClusterRegions(nil)
	assert.NotNil(t, heatmap)
	assert.Empty(t, heatmap)
}

func TestClusterRegionsSingleCounty(t *testing.T) {
	heatmap := ClusterRegions([]models.RegionalSales{
		{County: "Nairobi", TotalOrders: 120, TotalRevenue: 54000},
	})

	assert.Len(t, heatmap, 1)
	cluster := heatmap["Nairobi"]
	assert.Equal(t, 120, cluster.DemandScore)
	assert.InDelta(t, 54000.0, cluster.Revenue, 1e-9)
	assert.Equal(t, 0, cluster.Cluster)
}

func TestClusterRegionsIdenticalFeaturesShareCluster(t *testing.T) {
	heatmap := ClusterRegions([]models.RegionalSales{
		{County: "Nakuru", TotalOrders: 50, TotalRevenue: 10000},
		{County: "Kisumu", TotalOrders: 50, TotalRevenue: 10000},
		{County: "Nairobi", TotalOrders: 500, TotalRevenue: 250000},
		{County: "Mombasa", TotalOrders: 5, TotalRevenue: 800},
	})

	assert.Len(t, heatmap, 4)
	assert.Equal(t, heatmap["Nakuru"].Cluster, heatmap["Kisumu"].Cluster)
	assert.NotEqual(t, heatmap["Nakuru"].Cluster, heatmap["Nairobi"].Cluster)
}

func TestClusterRegionsBoundedClusterIDs(t *testing.T) {
	regions := []models.RegionalSales{
		{County: "Nairobi", TotalOrders: 900, TotalRevenue: 400000},
		{County: "Nakuru", TotalOrders: 300, TotalRevenue: 120000},
		{County: "Kisumu", TotalOrders: 280, TotalRevenue: 110000},
		{County: "Eldoret", TotalOrders: 40, TotalRevenue: 9000},
		{County: "Mombasa", TotalOrders: 35, TotalRevenue: 8000},
		{County: "Meru", TotalOrders: 10, TotalRevenue: 2000},
	}

	heatmap := ClusterRegions(regions)
	assert.Len(t, heatmap, len(regions))
	for county, cluster := range heatmap {
		assert.GreaterOrEqual(t, cluster.Cluster, 0, county)
		assert.Less(t, cluster.Cluster, 3, county)
	}
}

func TestClusterRegionsDeterministic(t *testing.T) {
	regions := []models.RegionalSales{
		{County: "Nairobi", TotalOrders: 900, TotalRevenue: 400000},
		{County: "Nakuru", TotalOrders: 300, TotalRevenue: 120000},
		{County: "Meru", TotalOrders: 10, TotalRevenue: 2000},
	}

	first := ClusterRegions(regions)
	second := ClusterRegions(regions)
	assert.Equal(t, first, second)
}
