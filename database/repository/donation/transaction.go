// File: database/repository/donation/transaction.go
package donationRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Schedule claims a unit of the slot and inserts the donation in one mongo
// transaction. The capacity check is the authoritative one: two donors racing
// for the last unit are serialized here, and the loser gets
// ErrNoAvailableSlots.
func (r *mongoDonationRepo) Schedule(ctx context.Context, donation *models.ScheduledDonation) error {
	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	donation.CreatedAt = time.Now()
	donation.UpdatedAt = donation.CreatedAt
	if donation.Status == "" {
		donation.Status = models.DonationStatusScheduled
	}

	txnFn := func(sc mongo.SessionContext) error {
		active, err := r.hasActiveInSession(sc, donation.DonorID)
		if err != nil {
			return err
		}
		if active {
			return ErrActiveDonationExists
		}

		if donation.SlotID != "" {
			// Conditional claim: only matches while spare capacity remains.
			filter := bson.M{
				"id":    donation.SlotID,
				"$expr": bson.M{"$lt": bson.A{"$bookedCount", "$capacity"}},
			}
			update := bson.M{"$inc": bson.M{"bookedCount": 1, "version": 1}}
			res, err := r.slotColl(donation.FacilityKind).UpdateOne(sc, filter, update)
			if err != nil {
				return fmt.Errorf("failed to claim slot capacity: %w", err)
			}
			if res.MatchedCount == 0 {
				return ErrNoAvailableSlots
			}
		}

		if _, err := r.coll(donation.FacilityKind).InsertOne(sc, donation); err != nil {
			return fmt.Errorf("insert donation failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

func (r *mongoDonationRepo) hasActiveInSession(sc mongo.SessionContext, donorID string) (bool, error) {
	filter := bson.M{
		"donorId": donorID,
		"status":  bson.M{"$in": []string{models.DonationStatusScheduled, models.DonationStatusConfirmed}},
	}
	for _, kind := range donationKinds() {
		n, err := r.coll(kind).CountDocuments(sc, filter)
		if err != nil {
			return false, fmt.Errorf("failed to count active donations: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
