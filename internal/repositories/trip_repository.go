package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	dbm "lazytravel/internal/models/db_models"
	resp "lazytravel/internal/models/response_models"
	"lazytravel/pkg/utils"
)

// StopDistance is one stop annotated with its database-computed distance from
// the trip's hotel anchor.
type StopDistance struct {
	StopID         string   `gorm:"column:stop_id"`
	PlaceName      string   `gorm:"column:place_name"`
	Category       string   `gorm:"column:category"`
	City           string   `gorm:"column:city"`
	DayNumber      int      `gorm:"column:day_number"`
	Lat            *float64 `gorm:"column:lat"`
	Lng            *float64 `gorm:"column:lng"`
	DistanceMeters float64  `gorm:"column:distance_meters"`
}

type TripRepository interface {
	CreateTrip(ctx context.Context, trip *dbm.Trip) (uuid.UUID, error)
	GetTripByID(ctx context.Context, tripID string) (*dbm.Trip, error)
	GetTripByShareToken(ctx context.Context, token string) (*dbm.Trip, error)
	ListTrips(ctx context.Context, page, pageSize int) ([]dbm.Trip, error)
	DeleteTrip(ctx context.Context, tripID string) error
	SetHotelAnchor(ctx context.Context, tripID string, hotelName string, lat, lng float64) error
	// PublishTrip flips the trip to public so its share token resolves.
	PublishTrip(ctx context.Context, tripID string) error

	// ListStops returns the trip's canonical stop list, day ascending and
	// order-index ascending within a day.
	ListStops(ctx context.Context, tripID string) ([]resp.TripItem, error)
	// ListStopsByDistanceFromHotel returns all stops ordered by geographic
	// distance from the hotel anchor, computed in the database. Stops with
	// no coordinates get distance 0.
	ListStopsByDistanceFromHotel(ctx context.Context, tripID string) ([]StopDistance, error)
	ListStopsNearHotel(ctx context.Context, tripID string, radiusMeters float64) ([]StopDistance, error)

	ReplaceDayAssignment(ctx context.Context, tripID, stopID string, dayNumber, orderIndex int) error
	CreateDay(ctx context.Context, tripID string, dayNumber int) (uuid.UUID, error)
	DeleteStop(ctx context.Context, stopID string) error

	// ReplaceMaterializedItinerary wipes the trip's days and activities and
	// recreates them from the given stop list in one transaction, refreshing
	// the trip's derived fields (cities, budget) along the way.
	ReplaceMaterializedItinerary(ctx context.Context, tripID string, items []resp.TripItem) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *dbm.Trip) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return uuid.Nil, err
	}
	return trip.ID, nil
}

func (r *tripRepository) GetTripByID(ctx context.Context, tripID string) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Where("id = ?", tripID).
		Preload("Days").
		Preload("Days.Activities").
		First(&trip).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) GetTripByShareToken(ctx context.Context, token string) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Where("share_token = ? AND is_public = ?", token, true).
		Preload("Days").
		Preload("Days.Activities").
		First(&trip).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListTrips(ctx context.Context, page, pageSize int) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&trips).Error

	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) DeleteTrip(ctx context.Context, tripID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subDayIDs := tx.Model(&dbm.TripDay{}).
			Select("id").
			Where("trip_id = ?", tripID)

		if err := tx.Where("day_id IN (?)", subDayIDs).
			Delete(&dbm.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).
			Delete(&dbm.TripDay{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", tripID).Delete(&dbm.Trip{}).Error
	})
}

func (r *tripRepository) SetHotelAnchor(ctx context.Context, tripID string, hotelName string, lat, lng float64) error {
	result := r.db.WithContext(ctx).
		Model(&dbm.Trip{}).
		Where("id = ?", tripID).
		Updates(map[string]interface{}{
			"hotel_name": hotelName,
			"hotel_lat":  lat,
			"hotel_lng":  lng,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tripRepository) PublishTrip(ctx context.Context, tripID string) error {
	result := r.db.WithContext(ctx).
		Model(&dbm.Trip{}).
		Where("id = ?", tripID).
		Update("is_public", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tripRepository) ListStops(ctx context.Context, tripID string) ([]resp.TripItem, error) {
	trip, err := r.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return dbm.FlattenTripItems(trip), nil
}

// hotelDistanceExpr computes the geography distance from a stop to the
// hotel anchor. Stops without coordinates fold to 0 so they stay in the
// nearest (walking) bucket rather than being stranded far away.
const hotelDistanceExpr = `
	CASE
		WHEN activities.lat IS NULL OR activities.lng IS NULL THEN 0
		ELSE ST_Distance(
			ST_SetSRID(ST_MakePoint(activities.lng, activities.lat), 4326)::geography,
			ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography
		)
	END`

func (r *tripRepository) hotelAnchor(ctx context.Context, tripID string) (*dbm.Trip, error) {
	var trip dbm.Trip
	if err := r.db.WithContext(ctx).Where("id = ?", tripID).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListStopsByDistanceFromHotel(ctx context.Context, tripID string) ([]StopDistance, error) {
	trip, err := r.hotelAnchor(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if trip.HotelLat == nil || trip.HotelLng == nil {
		return nil, fmt.Errorf("%w: trip %s", utils.ErrHotelNotSet, tripID)
	}

	query := `
		SELECT
			activities.id AS stop_id,
			activities.place_name,
			activities.category,
			activities.city,
			trip_days.day_number,
			activities.lat,
			activities.lng,
			` + hotelDistanceExpr + ` AS distance_meters
		FROM activities
		JOIN trip_days ON activities.day_id = trip_days.id
		WHERE trip_days.trip_id = ?
		  AND activities.deleted_at IS NULL
		  AND trip_days.deleted_at IS NULL
		ORDER BY distance_meters ASC`

	var results []StopDistance
	if err := r.db.WithContext(ctx).
		Raw(query, *trip.HotelLng, *trip.HotelLat, tripID).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tripRepository) ListStopsNearHotel(ctx context.Context, tripID string, radiusMeters float64) ([]StopDistance, error) {
	all, err := r.ListStopsByDistanceFromHotel(ctx, tripID)
	if err != nil {
		return nil, err
	}

	near := make([]StopDistance, 0, len(all))
	for _, s := range all {
		if s.DistanceMeters <= radiusMeters {
			near = append(near, s)
		}
	}
	return near, nil
}

func (r *tripRepository) ReplaceDayAssignment(ctx context.Context, tripID, stopID string, dayNumber, orderIndex int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		day, err := findOrCreateDay(tx, tripID, dayNumber)
		if err != nil {
			return err
		}

		result := tx.Model(&dbm.Activity{}).
			Where("id = ?", stopID).
			Updates(map[string]interface{}{
				"day_id":      day.ID,
				"order_index": orderIndex,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func findOrCreateDay(tx *gorm.DB, tripID string, dayNumber int) (*dbm.TripDay, error) {
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, err
	}

	var day dbm.TripDay
	err = tx.Where("trip_id = ? AND day_number = ?", tripID, dayNumber).
		First(&day).Error
	if err == nil {
		return &day, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	day = dbm.TripDay{TripID: tripUUID, DayNumber: dayNumber}
	if err := tx.Create(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *tripRepository) CreateDay(ctx context.Context, tripID string, dayNumber int) (uuid.UUID, error) {
	var dayID uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		day, err := findOrCreateDay(tx, tripID, dayNumber)
		if err != nil {
			return err
		}
		dayID = day.ID
		return nil
	})
	return dayID, err
}

func (r *tripRepository) DeleteStop(ctx context.Context, stopID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", stopID).Delete(&dbm.Activity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tripRepository) ReplaceMaterializedItinerary(ctx context.Context, tripID string, items []resp.TripItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip dbm.Trip
		if err := tx.First(&trip, "id = ?", tripID).Error; err != nil {
			return err
		}

		// 1) Wipe previous materialized data
		subDayIDs := tx.Model(&dbm.TripDay{}).
			Select("id").
			Where("trip_id = ?", trip.ID)

		// Hard delete so recreated activities can keep their ids.
		if err := tx.Unscoped().Where("day_id IN (?)", subDayIDs).
			Delete(&dbm.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("trip_id = ?", trip.ID).
			Delete(&dbm.TripDay{}).Error; err != nil {
			return err
		}

		// 2) Recreate days + activities from the canonical list
		for _, group := range dbm.GroupByDay(items) {
			day := dbm.TripDay{TripID: trip.ID, DayNumber: group.DayNumber}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}

			acts := make([]dbm.Activity, 0, len(group.Items))
			for i, item := range group.Items {
				act := dbm.Activity{
					DayID:           day.ID,
					OrderIndex:      i,
					PlaceName:       item.PlaceName,
					Category:        item.Category,
					City:            item.City,
					Lat:             item.Lat,
					Lng:             item.Lng,
					Address:         item.Address,
					Description:     item.Description,
					WebsiteURL:      item.WebsiteURL,
					ImageURL:        item.ImageURL,
					Rating:          item.Rating,
					Cost:            item.Cost,
					Currency:        item.Currency,
					TravelTimeNext:  item.TravelTimeNext,
					Source:          item.Source,
					OriginalContext: item.OriginalContext,
					IsVerified:      item.IsVerified,
				}
				if id, err := uuid.Parse(item.ID); err == nil {
					act.ID = id
				}
				acts = append(acts, act)
			}
			if len(acts) > 0 {
				if err := tx.Create(&acts).Error; err != nil {
					return err
				}
			}
		}

		// 3) Refresh derived trip fields
		cities, total, currency := deriveTripFields(items)
		updates := map[string]interface{}{
			"cities":   pq.StringArray(cities),
			"currency": currency,
		}
		if len(cities) > 0 {
			updates["city"] = cities[0]
		}
		if total > 0 {
			updates["total_budget"] = total
		} else {
			updates["total_budget"] = nil
		}
		return tx.Model(&dbm.Trip{}).Where("id = ?", trip.ID).Updates(updates).Error
	})
}

func deriveTripFields(items []resp.TripItem) (cities []string, total float64, currency string) {
	seen := make(map[string]bool)
	for _, item := range items {
		if item.City != "" && !seen[item.City] {
			seen[item.City] = true
			cities = append(cities, item.City)
		}
		if item.Cost != nil {
			total += *item.Cost
		}
		if currency == "" && item.Currency != "" {
			currency = item.Currency
		}
	}
	return cities, total, currency
}
