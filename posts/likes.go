package posts

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

// POST /api/posts/like/:postid
//
// The toggle is a single conditional set-membership mutation per direction,
// so two concurrent likes from the same user cannot both land: the filter
// only matches while the user is absent from the likes set.
func LikeUnlikePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	postID := ps.ByName("postid")

	res, err := db.PostsCollection.UpdateOne(
		context.TODO(),
		bson.M{"postid": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if res.MatchedCount > 0 {
		go mq.Emit(globals.Ctx, "post-liked", models.Index{
			EntityType: "post", EntityId: postID, Method: "PUT", ItemId: userID,
		})
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Post liked successfully"})
		return
	}

	// Not matched: the user already liked the post, or it does not exist.
	res, err = db.PostsCollection.UpdateOne(
		context.TODO(),
		bson.M{"postid": postID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}

	go mq.Emit(globals.Ctx, "post-unliked", models.Index{
		EntityType: "post", EntityId: postID, Method: "DELETE", ItemId: userID,
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Post unliked successfully"})
}
