package profile

import (
	"errors"
	"net/http"
	"os"

	"nitrojack/db"
	"nitrojack/globals"
	"nitrojack/models"
	"nitrojack/rdx"
	"nitrojack/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetUserProfile resolves :query as either a username or a userid.
func GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := ps.ByName("query")

	viewerID, _ := r.Context().Value(globals.UserIDKey).(string)

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{
		"$or": []bson.M{{"username": query}, {"userid": query}},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, buildProfileResponse(user, viewerID))
}

func buildProfileResponse(user models.User, viewerID string) models.UserProfileResponse {
	return models.UserProfileResponse{
		UserID:         user.UserID,
		Name:           user.Name,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		ProfilePic:     user.ProfilePic,
		FollowersCount: len(user.Followers),
		FollowingCount: len(user.Following),
		IsFollowing:    viewerID != "" && utils.Contains(user.Followers, viewerID),
		IsFrozen:       user.IsFrozen,
		LastLogin:      user.LastLogin,
	}
}

// RespondWithUserProfile fetches a fresh copy of the user and writes the
// trimmed DTO.
func RespondWithUserProfile(w http.ResponseWriter, r *http.Request, userID string) error {
	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user); err != nil {
		return err
	}
	utils.RespondWithJSON(w, http.StatusOK, buildProfileResponse(user, userID))
	return nil
}

// InvalidateCachedProfile drops the cached profile JSON so the next read
// fetches fresh data.
func InvalidateCachedProfile(username string) error {
	_, err := rdx.RdxDel("profile:" + username)
	return err
}

// GET /api/users/:query/qr
//
// PNG QR code pointing at the public profile page, for profile sharing.
func ProfileQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := ps.ByName("query")

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{
		"$or": []bson.M{{"username": query}, {"userid": query}},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	png, err := qrcode.Encode(base+"/"+user.Username, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
