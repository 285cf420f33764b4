package routes

import (
	"net/http"

	"nitrojack/auth"
	"nitrojack/middleware"
	"nitrojack/posts"
	"nitrojack/profile"
	"nitrojack/ratelim"
	"nitrojack/suggestions"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/postpic/*filepath", http.Dir("static/postpic"))
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/users/signup", ratelim.RateLimit(auth.Register))
	router.POST("/api/users/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/users/logout", middleware.Authenticate(auth.LogoutUser))
}

func AddPostRoutes(router *httprouter.Router) {
	router.POST("/api/posts/post", ratelim.RateLimit(middleware.Authenticate(posts.CreatePost)))
	router.GET("/api/posts/post/:postid", posts.GetPost)
	router.DELETE("/api/posts/post/:postid", middleware.Authenticate(posts.DeletePost))
	router.POST("/api/posts/like/:postid", ratelim.RateLimit(middleware.Authenticate(posts.LikeUnlikePost)))
	router.POST("/api/posts/reply/:postid", ratelim.RateLimit(middleware.Authenticate(posts.ReplyToPost)))
	router.GET("/api/posts/feed", middleware.Authenticate(posts.GetFeedPosts))
	router.GET("/api/posts/user/:username", posts.GetUserPosts)
}

func AddUserRoutes(router *httprouter.Router) {
	router.POST("/api/users/follow/:id", ratelim.RateLimit(middleware.Authenticate(profile.FollowUnfollowUser)))
	router.PUT("/api/users/user/:id", ratelim.RateLimit(middleware.Authenticate(profile.UpdateUser)))
	router.PUT("/api/users/freeze", middleware.Authenticate(profile.FreezeAccount))
	router.GET("/api/users/suggested", middleware.Authenticate(suggestions.SuggestedUsers))
	router.GET("/api/users/profile/:query", middleware.Authenticate(profile.GetUserProfile))
	router.GET("/api/users/qr/:query", ratelim.RateLimit(profile.ProfileQR))
}
