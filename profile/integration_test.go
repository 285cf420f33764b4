//go:build integration

package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"nitrojack/db"
	"nitrojack/globals"
	"nitrojack/models"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		panic(err)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		panic(err)
	}
	db.Client = client
	db.UserCollection = client.Database("nitrodb_test").Collection("users")
	db.PostsCollection = client.Database("nitrodb_test").Collection("posts")

	code := m.Run()
	_ = client.Disconnect(ctx)
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func insertGraphUser(t *testing.T, userID, username string) {
	t.Helper()
	_, err := db.UserCollection.InsertOne(context.Background(), models.User{
		UserID:    userID,
		Username:  username,
		Email:     username + "@example.com",
		Followers: []string{},
		Following: []string{},
	})
	require.NoError(t, err)
}

func fetchGraphUser(t *testing.T, userID string) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.UserCollection.FindOne(
		context.Background(), bson.M{"userid": userID},
	).Decode(&user))
	return user
}

func toggleFollow(t *testing.T, actorID, targetID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/users/follow/"+targetID, nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, actorID))
	rec := httptest.NewRecorder()
	FollowUnfollowUser(rec, req, httprouter.Params{{Key: "id", Value: targetID}})
	return rec
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	insertGraphUser(t, "uAlice00001", "g_alice")
	insertGraphUser(t, "uBob0000001", "g_bob")

	// follow: the edge appears on both documents
	rec := toggleFollow(t, "uAlice00001", "uBob0000001")
	require.Equal(t, http.StatusOK, rec.Code)

	alice := fetchGraphUser(t, "uAlice00001")
	bob := fetchGraphUser(t, "uBob0000001")
	assert.Equal(t, []string{"uBob0000001"}, alice.Following)
	assert.Empty(t, alice.Followers)
	assert.Equal(t, []string{"uAlice00001"}, bob.Followers)
	assert.Empty(t, bob.Following)

	// unfollow: both sides return to their starting state
	rec = toggleFollow(t, "uAlice00001", "uBob0000001")
	require.Equal(t, http.StatusOK, rec.Code)

	alice = fetchGraphUser(t, "uAlice00001")
	bob = fetchGraphUser(t, "uBob0000001")
	assert.Empty(t, alice.Following)
	assert.Empty(t, bob.Followers)

	// a third toggle follows again
	rec = toggleFollow(t, "uAlice00001", "uBob0000001")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"uBob0000001"}, fetchGraphUser(t, "uAlice00001").Following)
	assert.Equal(t, []string{"uAlice00001"}, fetchGraphUser(t, "uBob0000001").Followers)
}

func TestFollowUnknownTarget(t *testing.T) {
	insertGraphUser(t, "uCarla00001", "g_carla")

	rec := toggleFollow(t, "uCarla00001", "uGhost00001")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Empty(t, fetchGraphUser(t, "uCarla00001").Following)
}
