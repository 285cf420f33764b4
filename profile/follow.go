package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"nitrojack/db"
	"nitrojack/globals"
	"nitrojack/models"
	"nitrojack/mq"
	"nitrojack/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var errSelfFollow = errors.New("You cannot follow yourself")

// validateFollowTarget rejects self-follow before any store access.
func validateFollowTarget(actorID, targetID string) error {
	if targetID == "" {
		return errors.New("User ID is required")
	}
	if actorID == targetID {
		return errSelfFollow
	}
	return nil
}

// POST /api/users/follow/:id
//
// Toggle: following the target unfollows it and vice versa, decided by
// membership of the target in the actor's following set.
func FollowUnfollowUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || actorID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	targetID := ps.ByName("id")

	if err := validateFollowTarget(actorID, targetID); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var actor models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": actorID}).Decode(&actor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	count, err := db.UserCollection.CountDocuments(r.Context(), bson.M{"userid": targetID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	isFollowing := utils.Contains(actor.Following, targetID)

	if err := updateFollowEdges(actorID, targetID, !isFollowing); err != nil {
		log.Printf("Error updating follow relationship: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update follow relationship")
		return
	}

	if isFollowing {
		go mq.Emit(globals.Ctx, "unfollowed", models.Index{
			EntityType: "follow", EntityId: actorID, Method: "DELETE", ItemId: targetID,
		})
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User unfollowed successfully"})
		return
	}

	go mq.Emit(globals.Ctx, "followed", models.Index{
		EntityType: "follow", EntityId: actorID, Method: "PUT", ItemId: targetID,
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User followed successfully"})
}

// updateFollowEdges moves both sides of the relationship. The two documents
// cannot move in one atomic write, so a failure of the second write rolls
// back the first; no one-sided edge survives a partial failure.
func updateFollowEdges(actorID, targetID string, follow bool) error {
	actorOp, targetOp, undoOp := "$pull", "$pull", "$addToSet"
	if follow {
		actorOp, targetOp, undoOp = "$addToSet", "$addToSet", "$pull"
	}

	_, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": actorID},
		bson.M{actorOp: bson.M{"following": targetID}},
	)
	if err != nil {
		return fmt.Errorf("failed to update actor's following: %w", err)
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": targetID},
		bson.M{targetOp: bson.M{"followers": actorID}},
	)
	if err != nil {
		// compensate the first write
		if _, undoErr := db.UserCollection.UpdateOne(
			context.TODO(),
			bson.M{"userid": actorID},
			bson.M{undoOp: bson.M{"following": targetID}},
		); undoErr != nil {
			log.Printf("Compensation failed for %s -> %s: %v", actorID, targetID, undoErr)
		}
		return fmt.Errorf("failed to update target's followers: %w", err)
	}

	return nil
}
