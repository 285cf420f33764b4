//go:build integration

package posts

import (
	"context"
	"encoding/json"
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

func authedRequest(method, target, userID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), globals.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestDeletePostRequiresOwnership(t *testing.T) {
	post := models.Post{
		PostID:    "pOwned00001",
		PostedBy:  "uOwner00001",
		Text:      "mine alone",
		Likes:     []string{},
		Replies:   []models.Reply{},
		CreatedAt: time.Now(),
	}
	_, err := db.PostsCollection.InsertOne(context.Background(), post)
	require.NoError(t, err)

	ps := httprouter.Params{{Key: "postid", Value: post.PostID}}

	rec := httptest.NewRecorder()
	DeletePost(rec, authedRequest(http.MethodDelete, "/api/posts/post/"+post.PostID, "uStranger01"), ps)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// the rejected delete must not have touched the document
	var stored models.Post
	require.NoError(t, db.PostsCollection.FindOne(
		context.Background(), bson.M{"postid": post.PostID},
	).Decode(&stored))
	assert.Equal(t, post.Text, stored.Text)

	rec = httptest.NewRecorder()
	DeletePost(rec, authedRequest(http.MethodDelete, "/api/posts/post/"+post.PostID, post.PostedBy), ps)
	assert.Equal(t, http.StatusOK, rec.Code)

	count, err := db.PostsCollection.CountDocuments(context.Background(), bson.M{"postid": post.PostID})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFeedEmptyWhenFollowingNobody(t *testing.T) {
	loner := models.User{
		UserID:    "uLoner00001",
		Username:  "loner",
		Email:     "loner@example.com",
		Followers: []string{},
		Following: []string{},
	}
	_, err := db.UserCollection.InsertOne(context.Background(), loner)
	require.NoError(t, err)

	// posts by strangers must not leak into the feed
	_, err = db.PostsCollection.InsertOne(context.Background(), models.Post{
		PostID: "pStranger01", PostedBy: "uStranger02", Text: "noise",
		Likes: []string{}, Replies: []models.Reply{}, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	GetFeedPosts(rec, authedRequest(http.MethodGet, "/api/posts/feed", loner.UserID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var feed []models.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&feed))
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestFeedReturnsFollowedPostsNewestFirst(t *testing.T) {
	reader := models.User{
		UserID:    "uReader0001",
		Username:  "reader",
		Email:     "reader@example.com",
		Followers: []string{},
		Following: []string{"uWriter0001"},
	}
	_, err := db.UserCollection.InsertOne(context.Background(), reader)
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"first", "second", "third"} {
		_, err := db.PostsCollection.InsertOne(context.Background(), models.Post{
			PostID:    fmt.Sprintf("pWriter000%d", i),
			PostedBy:  "uWriter0001",
			Text:      text,
			Likes:     []string{},
			Replies:   []models.Reply{},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	GetFeedPosts(rec, authedRequest(http.MethodGet, "/api/posts/feed", reader.UserID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var feed []models.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&feed))
	require.Len(t, feed, 3)
	assert.Equal(t, "third", feed[0].Text)
	assert.Equal(t, "first", feed[2].Text)
}
