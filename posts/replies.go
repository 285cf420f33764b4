package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"nitrojack/db"
	"nitrojack/globals"
	"nitrojack/models"
	"nitrojack/mq"
	"nitrojack/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type replyRequest struct {
	Text string `json:"text" validate:"required"`
}

// buildReply snapshots the replier's username and profile picture at reply
// time. Reply text has no length cap; only posts are capped.
func buildReply(user models.User, text string) models.Reply {
	return models.Reply{
		UserID:         user.UserID,
		Text:           text,
		UserProfilePic: user.ProfilePic,
		Username:       user.Username,
		CreatedAt:      time.Now(),
	}
}

// POST /api/posts/reply/:postid
func ReplyToPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	postID := ps.ByName("postid")

	var payload replyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := utils.ValidatePayload(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Text field is required")
		return
	}

	var replier models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&replier); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply := buildReply(replier, payload.Text)

	res, err := db.PostsCollection.UpdateOne(
		context.TODO(),
		bson.M{"postid": postID},
		bson.M{"$push": bson.M{"replies": reply}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}

	go mq.Emit(globals.Ctx, "post-replied", models.Index{
		EntityType: "post", EntityId: postID, Method: "PUT", ItemId: userID,
	})

	utils.RespondWithJSON(w, http.StatusOK, reply)
}
