package db_models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lazytravel/internal/models/response_models"
)

func TestGroupByDaySortsDaysAndKeepsOrder(t *testing.T) {
	items := []response_models.TripItem{
		{ID: "c", DayNumber: 2},
		{ID: "a", DayNumber: 1},
		{ID: "d", DayNumber: 2},
		{ID: "b", DayNumber: 1},
	}

	groups := GroupByDay(items)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].DayNumber)
	assert.Equal(t, "a", groups[0].Items[0].ID)
	assert.Equal(t, "b", groups[0].Items[1].ID)
	assert.Equal(t, 2, groups[1].DayNumber)
	assert.Equal(t, "c", groups[1].Items[0].ID)
	assert.Equal(t, "d", groups[1].Items[1].ID)
}

func TestGroupByDayTreatsZeroAsDayOne(t *testing.T) {
	items := []response_models.TripItem{
		{ID: "a", DayNumber: 0},
		{ID: "b", DayNumber: 1},
	}

	groups := GroupByDay(items)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].DayNumber)
	assert.Len(t, groups[0].Items, 2)
}

func TestFlattenTripItemsOrdersByDayAndIndex(t *testing.T) {
	trip := &Trip{
		Days: []TripDay{
			{
				DayNumber: 2,
				Activities: []Activity{
					{BaseModel: BaseModel{ID: uuid.New()}, PlaceName: "Later", OrderIndex: 0},
				},
			},
			{
				DayNumber: 1,
				Activities: []Activity{
					{BaseModel: BaseModel{ID: uuid.New()}, PlaceName: "Second", OrderIndex: 1},
					{BaseModel: BaseModel{ID: uuid.New()}, PlaceName: "First", OrderIndex: 0},
				},
			},
		},
	}

	items := FlattenTripItems(trip)
	require.Len(t, items, 3)
	assert.Equal(t, "First", items[0].PlaceName)
	assert.Equal(t, "Second", items[1].PlaceName)
	assert.Equal(t, "Later", items[2].PlaceName)
	assert.Equal(t, 1, items[0].DayNumber)
	assert.Equal(t, 2, items[2].DayNumber)
}

func TestActivityToTripItemCoordinatesAllOrNothing(t *testing.T) {
	lat := 41.9
	a := Activity{BaseModel: BaseModel{ID: uuid.New()}, PlaceName: "Forum", Lat: &lat}

	item := ActivityToTripItem(a, 1)
	assert.Nil(t, item.Lat)
	assert.Nil(t, item.Lng)
}
