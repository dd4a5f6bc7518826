// File: database/repository/facility/search.go
package facilityRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FindWithSlots runs the primary directory aggregation for one facility kind:
// $geoNear filters and sorts by distance, a $lookup against the kind's slot
// collection counts open slots for the weekday, and each match is annotated
// with hasSlots and distanceKm. The caller filters on hasSlots.
func (r *mongoFacilityRepo) FindWithSlots(ctx context.Context, kind string, weekday time.Weekday, origin models.GeoPoint, radiusKm float64) ([]models.FacilityMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var pipeline mongo.Pipeline

	// 1) $geoNear: must come first to filter+sort by distance.
	pipeline = append(pipeline, bson.D{
		{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: origin.Coordinates},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: radiusKm * 1000},
		}},
	})

	// 2) $match: only verified facilities are offered to donors.
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"verified": true}}})

	// 3) $lookup: open slots for the target weekday with spare capacity.
	pipeline = append(pipeline, bson.D{
		{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.slotColl(kind)},
			{Key: "let", Value: bson.M{"fid": "$id"}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.M{
					"$expr": bson.M{"$and": bson.A{
						bson.M{"$eq": bson.A{"$facilityId", "$$fid"}},
						bson.M{"$eq": bson.A{"$weekday", int(weekday)}},
						bson.M{"$gt": bson.A{"$capacity", 0}},
						bson.M{"$lt": bson.A{"$bookedCount", "$capacity"}},
					}},
				}}},
			}},
			{Key: "as", Value: "daySlots"},
		}},
	})

	// 4) $addFields: annotate; $geoNear distances are metres.
	pipeline = append(pipeline, bson.D{
		{Key: "$addFields", Value: bson.M{
			"hasSlots":   bson.M{"$gt": bson.A{bson.M{"$size": "$daySlots"}, 0}},
			"distanceKm": bson.M{"$divide": bson.A{"$distance", 1000}},
		}},
	})
	pipeline = append(pipeline, bson.D{
		{Key: "$project", Value: bson.M{"daySlots": 0, "distance": 0, "passwordHash": 0}},
	})

	cursor, err := r.coll(kind).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("facility search aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []models.FacilityMatch
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode facility matches: %w", err)
	}
	return matches, nil
}
