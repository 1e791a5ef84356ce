// Package domain provides domain models and business logic for the News Service.
package domain

import (
	"time"
)

// DefaultArticleImgURL is stored when an article is created without an image.
const DefaultArticleImgURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"

// Topic groups articles by subject.
type Topic struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// User is an article or comment author.
type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Article is a news article. Body is empty in listing rows.
type Article struct {
	ID            int64     `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int64     `json:"comment_count"`
}

// Comment is a user comment on an article.
type Comment struct {
	ID        int64     `json:"comment_id"`
	ArticleID int64     `json:"article_id"`
	Body      string    `json:"body"`
	Votes     int       `json:"votes"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticle is the request body for creating an article.
type NewArticle struct {
	Author        string `json:"author" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Body          string `json:"body" validate:"required"`
	Topic         string `json:"topic" validate:"required"`
	ArticleImgURL string `json:"article_img_url" validate:"omitempty,url"`
}

// NewComment is the request body for posting a comment on an article.
type NewComment struct {
	Username string `json:"username" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

// NewTopic is the request body for creating a topic.
type NewTopic struct {
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// VoteUpdate is the request body for adjusting the votes on an article or
// comment. IncVotes may be negative; a missing field is rejected.
type VoteUpdate struct {
	IncVotes *int `json:"inc_votes" validate:"required"`
}
