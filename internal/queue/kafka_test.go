package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionForRegion(t *testing.T) {
	numPartitions := 10

	regions := []string{
		"north-america", "south-america", "europe", "africa",
		"south-asia", "east-asia", "oceania", "global",
	}
	for _, region := range regions {
		p := PartitionForRegion(region, numPartitions)
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, numPartitions)

		// Stable across calls so a region always lands on one partition
		assert.Equal(t, p, PartitionForRegion(region, numPartitions))
	}
}

func TestPartitionForRegionSpread(t *testing.T) {
	seen := make(map[int]bool)
	for _, region := range []string{"north-america", "europe", "east-asia", "oceania"} {
		seen[PartitionForRegion(region, 10)] = true
	}
	assert.Greater(t, len(seen), 1, "regions should not all collide")
}
