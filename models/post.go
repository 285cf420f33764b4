package models

import "time"

type Post struct {
	PostID    string    `json:"postid" bson:"postid"`
	PostedBy  string    `json:"postedBy" bson:"postedBy"`
	Text      string    `json:"text" bson:"text"`
	Img       string    `json:"img,omitempty" bson:"img,omitempty"`
	Likes     []string  `json:"likes" bson:"likes"`
	Replies   []Reply   `json:"replies" bson:"replies"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Reply embeds a snapshot of the replier's username and profile picture taken
// at reply time. Snapshots are back-filled when that user edits their profile.
type Reply struct {
	UserID         string    `json:"userId" bson:"userId"`
	Text           string    `json:"text" bson:"text"`
	UserProfilePic string    `json:"userProfilePic" bson:"userProfilePic"`
	Username       string    `json:"username" bson:"username"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Index represents an indexing-related message emitted over the event bus.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
