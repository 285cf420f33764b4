package suggestions

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"nitrojack/db"
	"nitrojack/globals"
	"nitrojack/models"
	"nitrojack/rdx"
	"nitrojack/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	sampleSize     = 10
	maxSuggestions = 4
	cacheTTL       = 60 * time.Second
)

// GET /api/users/suggested
//
// Random sample of users the caller does not follow yet, capped at 4.
func SuggestedUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if cached, err := rdx.RdxGet("suggested:" + userID); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cached))
		return
	}

	var me models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Sample first, filter followed users in memory. The projection keeps
	// passwords out of the pipeline output entirely.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "userid", Value: bson.D{{Key: "$ne", Value: userID}}}}}},
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: sampleSize}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "userid", Value: 1},
			{Key: "name", Value: 1},
			{Key: "username", Value: 1},
			{Key: "bio", Value: 1},
			{Key: "profilePic", Value: 1},
		}}},
	}

	cursor, err := db.UserCollection.Aggregate(r.Context(), pipeline)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(r.Context())

	var candidates []models.UserSuggest
	if err := cursor.All(r.Context(), &candidates); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	suggested := filterCandidates(candidates, me.Following, userID, maxSuggestions)

	if data, err := json.Marshal(suggested); err == nil {
		if err := rdx.SetWithExpiry("suggested:"+userID, string(data), cacheTTL); err != nil {
			log.Printf("Failed to cache suggestions for %s: %v", userID, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, suggested)
}

// filterCandidates drops the caller and anyone already followed, keeping at
// most max entries.
func filterCandidates(candidates []models.UserSuggest, following []string, selfID string, max int) []models.UserSuggest {
	suggested := []models.UserSuggest{}
	for _, c := range candidates {
		if c.UserID == selfID || utils.Contains(following, c.UserID) {
			continue
		}
		suggested = append(suggested, c)
		if len(suggested) == max {
			break
		}
	}
	return suggested
}
