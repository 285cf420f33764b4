package profile

import (
	"context"
	"net/http"

	"nitrojack/db"
	"nitrojack/globals"
	"nitrojack/models"
	"nitrojack/mq"
	"nitrojack/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// PUT /api/users/freeze
//
// Soft-disables the account. The flag clears automatically on the next
// successful login.
func FreezeAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"isFrozen": true}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	go mq.Emit(globals.Ctx, "account-frozen", models.Index{
		EntityType: "profile", EntityId: userID, Method: "PUT",
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
