package httpserver

import (
	"github.com/helixir/news-service/internal/domain"
)

// Response envelopes for JSON serialization.

type errorResponse struct {
	Msg string `json:"msg"`
}

type topicsResponse struct {
	Topics []domain.Topic `json:"topics"`
}

type topicResponse struct {
	Topic *domain.Topic `json:"topic"`
}

type articlesResponse struct {
	Articles   []domain.Article `json:"articles"`
	TotalCount int64            `json:"total_count"`
}

type articleResponse struct {
	Article *domain.Article `json:"article"`
}

type commentsResponse struct {
	Comments   []domain.Comment `json:"comments"`
	TotalCount int64            `json:"total_count"`
}

type commentResponse struct {
	Comment *domain.Comment `json:"comment"`
}

type usersResponse struct {
	Users []domain.User `json:"users"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type endpointsResponse struct {
	Endpoints map[string]endpointDoc `json:"endpoints"`
}

type endpointDoc struct {
	Description     string   `json:"description"`
	Queries         []string `json:"queries,omitempty"`
	ExampleRequest  any      `json:"exampleRequest,omitempty"`
	ExampleResponse any      `json:"exampleResponse,omitempty"`
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// endpointCatalogue is served by GET /api.
var endpointCatalogue = map[string]endpointDoc{
	"GET /api": {
		Description: "serves up a json representation of all the available endpoints of the api",
	},
	"GET /api/topics": {
		Description:     "serves an array of all topics",
		ExampleResponse: map[string]any{"topics": []map[string]string{{"slug": "football", "description": "Footie!"}}},
	},
	"POST /api/topics": {
		Description:     "adds a topic and serves it",
		ExampleRequest:  map[string]string{"slug": "football", "description": "Footie!"},
		ExampleResponse: map[string]any{"topic": map[string]string{"slug": "football", "description": "Footie!"}},
	},
	"GET /api/articles": {
		Description: "serves a page of articles without bodies and the total number of matching articles",
		Queries:     []string{"topic", "sort_by", "order", "limit", "p"},
		ExampleResponse: map[string]any{
			"articles": []map[string]any{{
				"article_id":      1,
				"title":           "Seafood substitutions are increasing",
				"topic":           "cooking",
				"author":          "weegembump",
				"created_at":      "2018-05-30T15:59:13.341Z",
				"votes":           0,
				"article_img_url": domain.DefaultArticleImgURL,
				"comment_count":   6,
			}},
			"total_count": 1,
		},
	},
	"POST /api/articles": {
		Description: "adds an article and serves it",
		ExampleRequest: map[string]string{
			"author": "weegembump", "title": "Seafood substitutions are increasing",
			"body": "Text from the article..", "topic": "cooking",
		},
	},
	"GET /api/articles/:article_id": {
		Description: "serves an article with its body and comment_count",
	},
	"PATCH /api/articles/:article_id": {
		Description:    "adds inc_votes to an article's votes and serves the updated article",
		ExampleRequest: map[string]int{"inc_votes": 1},
	},
	"DELETE /api/articles/:article_id": {
		Description: "deletes an article and its comments",
	},
	"GET /api/articles/:article_id/comments": {
		Description: "serves a page of an article's comments, newest first, and the article's total comment count",
		Queries:     []string{"limit", "p"},
	},
	"POST /api/articles/:article_id/comments": {
		Description:    "adds a comment to an article and serves it",
		ExampleRequest: map[string]string{"username": "butter_bridge", "body": "I carry a log"},
	},
	"PATCH /api/comments/:comment_id": {
		Description:    "adds inc_votes to a comment's votes and serves the updated comment",
		ExampleRequest: map[string]int{"inc_votes": -1},
	},
	"DELETE /api/comments/:comment_id": {
		Description: "deletes a comment",
	},
	"GET /api/users": {
		Description: "serves an array of all users",
	},
	"GET /api/users/:username": {
		Description: "serves a user",
	},
}
