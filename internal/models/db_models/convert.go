package db_models

import (
	"sort"

	"lazytravel/internal/models/response_models"
)

// ActivityToTripItem lifts a persisted stop into the working model.
func ActivityToTripItem(a Activity, dayNumber int) response_models.TripItem {
	item := response_models.TripItem{
		ID:              a.ID.String(),
		PlaceName:       a.PlaceName,
		Category:        a.Category,
		City:            a.City,
		OriginalContext: a.OriginalContext,
		Rating:          a.Rating,
		Description:     a.Description,
		WebsiteURL:      a.WebsiteURL,
		Address:         a.Address,
		ImageURL:        a.ImageURL,
		IsVerified:      a.IsVerified,
		Source:          a.Source,
		DayNumber:       dayNumber,
		Cost:            a.Cost,
		Currency:        a.Currency,
		TravelTimeNext:  a.TravelTimeNext,
	}
	if a.Lat != nil && a.Lng != nil {
		item.Lat = a.Lat
		item.Lng = a.Lng
	}
	return item
}

// FlattenTripItems turns a preloaded trip into the canonical flat stop list,
// days ascending and stops in order-index order within each day.
func FlattenTripItems(trip *Trip) []response_models.TripItem {
	if trip == nil {
		return nil
	}

	days := make([]TripDay, len(trip.Days))
	copy(days, trip.Days)
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })

	var items []response_models.TripItem
	for _, day := range days {
		acts := make([]Activity, len(day.Activities))
		copy(acts, day.Activities)
		sort.SliceStable(acts, func(i, j int) bool { return acts[i].OrderIndex < acts[j].OrderIndex })

		for _, a := range acts {
			items = append(items, ActivityToTripItem(a, day.DayNumber))
		}
	}
	return items
}

// GroupByDay derives the day groups of a stop list, ascending by day number.
// Input order is preserved within a day.
func GroupByDay(items []response_models.TripItem) []response_models.DayGroup {
	byDay := make(map[int][]response_models.TripItem)
	var dayNumbers []int
	for _, item := range items {
		d := item.EffectiveDay()
		if _, seen := byDay[d]; !seen {
			dayNumbers = append(dayNumbers, d)
		}
		byDay[d] = append(byDay[d], item)
	}
	sort.Ints(dayNumbers)

	groups := make([]response_models.DayGroup, 0, len(dayNumbers))
	for _, d := range dayNumbers {
		groups = append(groups, response_models.DayGroup{DayNumber: d, Items: byDay[d]})
	}
	return groups
}

// BuildTripDetailResponse assembles the API detail shape from a preloaded trip.
func BuildTripDetailResponse(trip *Trip) *response_models.TripDetailResponse {
	if trip == nil {
		return nil
	}
	return &response_models.TripDetailResponse{
		ID:          trip.ID.String(),
		Title:       trip.Title,
		City:        trip.City,
		Cities:      trip.Cities,
		TotalBudget: trip.TotalBudget,
		Currency:    trip.Currency,
		HotelName:   trip.HotelName,
		HotelLat:    trip.HotelLat,
		HotelLng:    trip.HotelLng,
		IsPublic:    trip.IsPublic,
		ShareToken:  trip.ShareToken,
		Days:        GroupByDay(FlattenTripItems(trip)),
	}
}
