package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

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

const maxPostTextLength = 500

var (
	errTextRequired = errors.New("Text is required")
	errTextTooLong  = errors.New("Text must be at most 500 characters")
)

type createPostRequest struct {
	PostedBy string `json:"postedBy" validate:"required"`
	Text     string `json:"text"`
	Img      string `json:"img,omitempty"`
}

// ValidatePostText enforces the post body rules shared by create and edit.
func ValidatePostText(text string) error {
	if text == "" {
		return errTextRequired
	}
	if len([]rune(text)) > maxPostTextLength {
		return errTextTooLong
	}
	return nil
}

// POST /api/posts
func CreatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := utils.ValidatePayload(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "PostedBy is required")
		return
	}
	if err := ValidatePostText(payload.Text); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var author models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": payload.PostedBy}).Decode(&author); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if author.UserID != userID {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized to create this post")
		return
	}

	// Upload failure aborts the whole operation; no partial post is created.
	var imgURI string
	if payload.Img != "" {
		uri, err := filemgr.SaveImage(payload.Img, filemgr.EntityPost)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		imgURI = uri
	}

	post := models.Post{
		PostID:    "p" + utils.GenerateName(10),
		PostedBy:  payload.PostedBy,
		Text:      payload.Text,
		Img:       imgURI,
		Likes:     []string{},
		Replies:   []models.Reply{},
		CreatedAt: time.Now(),
	}

	if _, err := db.PostsCollection.InsertOne(context.TODO(), post); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go mq.Emit(globals.Ctx, "post-created", models.Index{
		EntityType: "post", EntityId: post.PostID, Method: "POST", ItemId: post.PostedBy,
	})

	utils.RespondWithJSON(w, http.StatusCreated, post)
}
