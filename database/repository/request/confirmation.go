// File: database/repository/request/confirmation.go
package requestRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConfirmDonation commits the whole confirmation in one transaction: units
// land in the requesting hospital's inventory, the request flips to
// fulfilled, the donor's active donation (if any) completes, and the donor
// gets a notification row. Partial states never commit.
func (r *mongoRequestRepo) ConfirmDonation(ctx context.Context, conf models.DonationConfirmation) error {
	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		var req models.BloodRequest
		if err := r.coll().FindOne(sc, bson.M{"id": conf.RequestID}).Decode(&req); err != nil {
			if err == mongo.ErrNoDocuments {
				return fmt.Errorf("blood request %s not found", conf.RequestID)
			}
			return fmt.Errorf("find blood request error: %w", err)
		}
		if req.Status == models.RequestStatusFulfilled {
			return fmt.Errorf("blood request %s is already fulfilled", conf.RequestID)
		}

		// 1) Credit inventory for the hospital's blood group.
		invFilter := bson.M{"facilityId": req.HospitalID, "bloodGroup": req.BloodGroup}
		invUpdate := bson.M{
			"$inc": bson.M{"units": conf.UnitsDonated},
			"$set": bson.M{"updatedAt": time.Now()},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.db.Collection("inventory").UpdateOne(sc, invFilter, invUpdate, opts); err != nil {
			return fmt.Errorf("failed to credit inventory: %w", err)
		}

		// 2) Fulfil the request.
		reqUpdate := bson.M{"$set": bson.M{
			"status":         models.RequestStatusFulfilled,
			"matchedDonorId": conf.DonorID,
			"fulfilledAt":    time.Now(),
		}}
		if _, err := r.coll().UpdateOne(sc, bson.M{"id": conf.RequestID}, reqUpdate); err != nil {
			return fmt.Errorf("failed to fulfil request: %w", err)
		}

		// 3) Complete the donor's active donation, whichever kind holds it.
		donFilter := bson.M{
			"donorId": conf.DonorID,
			"status":  bson.M{"$in": []string{models.DonationStatusScheduled, models.DonationStatusConfirmed}},
		}
		donUpdate := bson.M{"$set": bson.M{
			"status":    models.DonationStatusCompleted,
			"updatedAt": time.Now(),
		}}
		for _, collName := range []string{"blood_bank_donations", "hospital_donations"} {
			if _, err := r.db.Collection(collName).UpdateOne(sc, donFilter, donUpdate); err != nil {
				return fmt.Errorf("failed to complete donation: %w", err)
			}
		}

		// 4) Thank the donor.
		notification := bson.M{
			"id":     uuid.New().String(),
			"userId": conf.DonorID,
			"type":   models.NotificationTypeRequestFulfilled,
			"title":  "Donation confirmed",
			"message": fmt.Sprintf("Thank you! %d unit(s) were received at %s, %s.",
				conf.UnitsDonated, conf.HospitalName, conf.HospitalAddress),
			"read":      false,
			"handled":   false,
			"createdAt": time.Now(),
		}
		if _, err := r.db.Collection("notifications").InsertOne(sc, notification); err != nil {
			return fmt.Errorf("failed to insert confirmation notification: %w", err)
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
		return fmt.Errorf("donation confirmation transaction failed: %w", err)
	}
	return nil
}
