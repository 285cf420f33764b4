package models

import "time"

type User struct {
	UserID     string    `json:"userid" bson:"userid"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	Username   string    `json:"username" bson:"username"`
	Email      string    `json:"email" bson:"email"`
	Password   string    `json:"-" bson:"password"`
	Bio        string    `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePic string    `json:"profilePic" bson:"profilePic"`
	Followers  []string  `json:"followers" bson:"followers"`
	Following  []string  `json:"following" bson:"following"`
	IsFrozen   bool      `json:"isFrozen" bson:"isFrozen"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin  time.Time `json:"last_login" bson:"last_login"`
}

// UserProfileResponse is the trimmed DTO returned to clients. Password never
// leaves the server.
type UserProfileResponse struct {
	UserID         string    `json:"userid" bson:"userid"`
	Name           string    `json:"name" bson:"name"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email" bson:"email"`
	Bio            string    `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePic     string    `json:"profilePic" bson:"profilePic"`
	FollowersCount int       `json:"followerscount"`
	FollowingCount int       `json:"followscount"`
	IsFollowing    bool      `json:"is_following"`
	IsFrozen       bool      `json:"isFrozen"`
	LastLogin      time.Time `json:"last_login" bson:"last_login"`
}

// UserSuggest is the projection used for follow suggestions. Already-followed
// users never survive filtering, so the DTO carries no follow-state flag.
type UserSuggest struct {
	UserID     string `json:"userid" bson:"userid"`
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
	Username   string `json:"username" bson:"username"`
	Bio        string `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePic string `json:"profilePic" bson:"profilePic"`
}
