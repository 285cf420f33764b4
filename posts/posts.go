package posts

import (
	"context"
	"errors"
	"log"
	"net/http"

	"nitrojack/db"
	"nitrojack/filemgr"
	"nitrojack/globals"
	"nitrojack/models"
	"nitrojack/mq"
	"nitrojack/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GET /api/posts/:postid
func GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var post models.Post
	err := db.PostsCollection.FindOne(r.Context(), bson.M{"postid": ps.ByName("postid")}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, post)
}

// DELETE /api/posts/:postid
func DeletePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	postID := ps.ByName("postid")

	var post models.Post
	err := db.PostsCollection.FindOne(r.Context(), bson.M{"postid": postID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if post.PostedBy != userID {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized to delete this post")
		return
	}

	// Best-effort: a stale file on disk is preferable to a dangling post.
	if post.Img != "" {
		if err := filemgr.DeleteImage(post.Img); err != nil {
			log.Printf("Failed to delete image for post %s: %v", postID, err)
		}
	}

	if _, err := db.PostsCollection.DeleteOne(context.TODO(), bson.M{"postid": postID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go mq.Emit(globals.Ctx, "post-deleted", models.Index{
		EntityType: "post", EntityId: postID, Method: "DELETE", ItemId: userID,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
