package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"nitrojack/db"
	"nitrojack/filemgr"
	"nitrojack/globals"
	"nitrojack/models"
	"nitrojack/mq"
	"nitrojack/rdx"
	"nitrojack/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type updateProfileRequest struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Username   string `json:"username,omitempty" validate:"omitempty,min=1,max=30"`
	Password   string `json:"password,omitempty"`
	Bio        string `json:"bio,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// PUT /api/users/:id
func UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if ps.ByName("id") != userID {
		utils.RespondWithError(w, http.StatusUnauthorized, "You cannot update other users' profiles")
		return
	}

	var payload updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := utils.ValidatePayload(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Malformed profile fields")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	update := bson.M{"updated_at": time.Now()}

	if payload.Name != "" {
		update["name"] = payload.Name
	}
	if payload.Email != "" {
		update["email"] = payload.Email
	}
	if payload.Bio != "" {
		update["bio"] = payload.Bio
	}

	newUsername := user.Username
	if payload.Username != "" && payload.Username != user.Username {
		update["username"] = payload.Username
		newUsername = payload.Username
		if err := rdx.RdxSet("users:"+userID, newUsername); err != nil {
			log.Printf("Failed to refresh cached username: %v", err)
		}
	}

	if payload.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Could not process password")
			return
		}
		update["password"] = string(hashed)
	}

	newProfilePic := user.ProfilePic
	if payload.ProfilePic != "" {
		if user.ProfilePic != "" {
			if err := filemgr.DeleteImage(user.ProfilePic); err != nil {
				log.Printf("Failed to delete old profile picture for %s: %v", userID, err)
			}
		}
		uri, err := filemgr.SaveImage(payload.ProfilePic, filemgr.EntityUser)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		update["profilePic"] = uri
		newProfilePic = uri
	}

	if _, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": userID},
		bson.M{"$set": update},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Reply snapshots denormalize username and profilePic; back-fill them
	// across every post this user has replied to.
	if newUsername != user.Username || newProfilePic != user.ProfilePic {
		if err := backfillReplySnapshots(userID, newUsername, newProfilePic); err != nil {
			log.Printf("Reply snapshot back-fill failed for %s: %v", userID, err)
		}
	}

	if err := InvalidateCachedProfile(user.Username); err != nil {
		log.Printf("Cache invalidation failed for %s: %v", user.Username, err)
	}

	go mq.Emit(globals.Ctx, "profile-edited", models.Index{
		EntityType: "profile", EntityId: userID, Method: "PUT",
	})

	if err := RespondWithUserProfile(w, r, userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// backfillReplySnapshots rewrites the denormalized username/profilePic on
// every reply authored by this user. Best-effort consistency sweep.
func backfillReplySnapshots(userID, username, profilePic string) error {
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"reply.userId": userID}},
	}

	_, err := db.PostsCollection.UpdateMany(
		context.TODO(),
		bson.M{"replies.userId": userID},
		bson.M{"$set": bson.M{
			"replies.$[reply].username":       username,
			"replies.$[reply].userProfilePic": profilePic,
		}},
		options.Update().SetArrayFilters(arrayFilters),
	)
	return err
}
