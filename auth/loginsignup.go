package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"nitrojack/db"
	"nitrojack/globals"
	"nitrojack/middleware"
	"nitrojack/models"
	"nitrojack/rdx"
	"nitrojack/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=1,max=30"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	var input signupRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := utils.ValidatePayload(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or malformed signup fields")
		return
	}

	if err := ValidatePassword(input.Password); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Username and email are both unique
	var existing models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{
		"$or": []bson.M{{"username": input.Username}, {"email": input.Email}},
	}).Decode(&existing)
	if err == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "User already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for user %s: %v", input.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now()
	user := models.User{
		UserID:    "u" + utils.GenerateName(10),
		Name:      input.Name,
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashedPassword),
		Followers: []string{},
		Following: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.UserCollection.InsertOne(context.TODO(), user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := rdx.RdxSet(fmt.Sprintf("users:%s", user.UserID), user.Username); err != nil {
		log.Printf("Failed to cache username: %v", err)
	}

	tokenString, err := generateAccessToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	if err := rdx.RdxHset(globals.TokenHash, user.UserID, tokenString); err != nil {
		log.Printf("Failed to store token: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"userid":     user.UserID,
		"name":       user.Name,
		"email":      user.Email,
		"username":   user.Username,
		"bio":        user.Bio,
		"profilePic": user.ProfilePic,
		"token":      tokenString,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.ValidatePayload(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var storedUser models.User
	findErr := db.UserCollection.FindOne(context.TODO(), bson.M{"username": input.Username}).Decode(&storedUser)

	// Compare even when the user is missing so both outcomes cost a bcrypt run.
	storedHash := storedUser.Password
	if findErr != nil {
		storedHash = ""
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(input.Password)); err != nil || findErr != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid username or password")
		return
	}

	// A frozen account reactivates on successful login.
	update := bson.M{"last_login": time.Now()}
	if storedUser.IsFrozen {
		update["isFrozen"] = false
		storedUser.IsFrozen = false
	}
	if _, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": update},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tokenString, err := generateAccessToken(storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	if err := rdx.RdxHset(globals.TokenHash, storedUser.UserID, tokenString); err != nil {
		log.Printf("Failed to store token: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"userid":     storedUser.UserID,
		"name":       storedUser.Name,
		"email":      storedUser.Email,
		"username":   storedUser.Username,
		"bio":        storedUser.Bio,
		"profilePic": storedUser.ProfilePic,
		"token":      tokenString,
	})
}

func logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := rdx.RdxHdel(globals.TokenHash, claims.UserID); err != nil {
		log.Printf("Error removing token from Redis: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
}

func generateAccessToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
