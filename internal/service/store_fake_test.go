package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/repository"
)

// memState is the in-memory data behind memStore.
type memState struct {
	topics   []domain.Topic
	users    []domain.User
	articles []domain.Article
	comments []domain.Comment
	events   []domain.OutboxEvent
	nextID   int64
}

func (s memState) clone() memState {
	c := s
	c.topics = append([]domain.Topic(nil), s.topics...)
	c.users = append([]domain.User(nil), s.users...)
	c.articles = append([]domain.Article(nil), s.articles...)
	c.comments = append([]domain.Comment(nil), s.comments...)
	c.events = append([]domain.OutboxEvent(nil), s.events...)
	return c
}

// memStore implements repository.Store over memState. WithTx restores the
// state when fn fails.
type memStore struct {
	state memState

	txs         int
	counts      int
	existence   []domain.ExistenceRef
	listErr     error
	insertEvErr error
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &memStore{}
	s.state.topics = []domain.Topic{
		{Slug: "mitch", Description: "The man, the Mitch, the legend"},
		{Slug: "cats", Description: "Not dogs"},
		{Slug: "paper", Description: "what books are made of"},
	}
	s.state.users = []domain.User{
		{Username: "butter_bridge", Name: "jonny"},
		{Username: "icellusedkars", Name: "sam"},
		{Username: "lurker", Name: "do_nothing"},
	}
	for i := 1; i <= 12; i++ {
		topic := "mitch"
		if i%4 == 0 {
			topic = "cats"
		}
		s.state.articles = append(s.state.articles, domain.Article{
			ID:        int64(i),
			Title:     fmt.Sprintf("Article %02d", i),
			Topic:     topic,
			Author:    "icellusedkars",
			Body:      "body",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Votes:     i % 3,
		})
	}
	for i := 1; i <= 11; i++ {
		s.state.comments = append(s.state.comments, domain.Comment{
			ID:        int64(i),
			ArticleID: 1,
			Body:      fmt.Sprintf("comment %d", i),
			Author:    "butter_bridge",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	s.state.nextID = 100
	return s
}

func (s *memStore) Articles() repository.ArticleRepository { return memArticles{s} }
func (s *memStore) Comments() repository.CommentRepository { return memComments{s} }
func (s *memStore) Topics() repository.TopicRepository     { return memTopics{s} }
func (s *memStore) Users() repository.UserRepository       { return memUsers{s} }
func (s *memStore) Outbox() repository.OutboxRepository    { return memOutbox{s} }
func (s *memStore) Existence() repository.ExistenceChecker { return memExistence{s} }

func (s *memStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	s.txs++
	snapshot := s.state.clone()
	if err := fn(s); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *memStore) id() int64 {
	s.state.nextID++
	return s.state.nextID
}

func (s *memStore) hasTopic(slug string) bool {
	for _, t := range s.state.topics {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (s *memStore) hasUser(username string) bool {
	for _, u := range s.state.users {
		if u.Username == username {
			return true
		}
	}
	return false
}

func window[T any](rows []T, plan domain.Plan) []T {
	if plan.Offset >= len(rows) {
		return nil
	}
	end := plan.Offset + plan.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[plan.Offset:end]
}

type memArticles struct{ s *memStore }

func (r memArticles) matching(topic *string) []domain.Article {
	var out []domain.Article
	for _, a := range r.s.state.articles {
		if topic == nil || a.Topic == *topic {
			out = append(out, a)
		}
	}
	return out
}

func (r memArticles) List(_ context.Context, topic *string, plan domain.Plan) ([]domain.Article, int64, error) {
	if r.s.listErr != nil {
		return nil, 0, r.s.listErr
	}
	rows := r.matching(topic)
	sort.SliceStable(rows, func(i, j int) bool {
		var less bool
		switch plan.OrderColumn {
		case domain.SortByVotes:
			less = rows[i].Votes < rows[j].Votes
		case domain.SortByTitle:
			less = rows[i].Title < rows[j].Title
		default:
			less = rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		if plan.OrderDirection == domain.OrderDesc {
			return !less
		}
		return less
	})
	page := window(rows, plan)
	if len(page) == 0 {
		return page, 0, nil
	}
	out := make([]domain.Article, len(page))
	for i, a := range page {
		a.Body = ""
		out[i] = a
	}
	return out, int64(len(rows)), nil
}

func (r memArticles) Count(_ context.Context, topic *string) (int64, error) {
	r.s.counts++
	return int64(len(r.matching(topic))), nil
}

func (r memArticles) Get(_ context.Context, id int64) (*domain.Article, error) {
	for _, a := range r.s.state.articles {
		if a.ID == id {
			for _, c := range r.s.state.comments {
				if c.ArticleID == id {
					a.CommentCount++
				}
			}
			return &a, nil
		}
	}
	return nil, domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
}

func (r memArticles) Create(_ context.Context, in domain.NewArticle) (*domain.Article, error) {
	if !r.s.hasUser(in.Author) || !r.s.hasTopic(in.Topic) {
		return nil, domain.NewError(domain.KindReferenceMissing)
	}
	img := in.ArticleImgURL
	if img == "" {
		img = domain.DefaultArticleImgURL
	}
	a := domain.Article{
		ID: r.s.id(), Title: in.Title, Topic: in.Topic, Author: in.Author,
		Body: in.Body, CreatedAt: time.Now().UTC(), ArticleImgURL: img,
	}
	r.s.state.articles = append(r.s.state.articles, a)
	return &a, nil
}

func (r memArticles) UpdateVotes(_ context.Context, id int64, inc int) (*domain.Article, error) {
	for i := range r.s.state.articles {
		if r.s.state.articles[i].ID == id {
			r.s.state.articles[i].Votes += inc
			a := r.s.state.articles[i]
			return &a, nil
		}
	}
	return nil, domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
}

func (r memArticles) Delete(_ context.Context, id int64) error {
	var kept []domain.Article
	for _, a := range r.s.state.articles {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	r.s.state.articles = kept
	var comments []domain.Comment
	for _, c := range r.s.state.comments {
		if c.ArticleID != id {
			comments = append(comments, c)
		}
	}
	r.s.state.comments = comments
	return nil
}

type memComments struct{ s *memStore }

func (r memComments) of(articleID int64) []domain.Comment {
	var out []domain.Comment
	for _, c := range r.s.state.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memComments) ListByArticle(_ context.Context, articleID int64, plan domain.Plan) ([]domain.Comment, int64, error) {
	rows := r.of(articleID)
	page := window(rows, plan)
	if len(page) == 0 {
		return page, 0, nil
	}
	return page, int64(len(rows)), nil
}

func (r memComments) CountByArticle(_ context.Context, articleID int64) (int64, error) {
	r.s.counts++
	return int64(len(r.of(articleID))), nil
}

func (r memComments) Create(_ context.Context, articleID int64, in domain.NewComment) (*domain.Comment, error) {
	if !r.s.hasUser(in.Username) {
		return nil, domain.NewError(domain.KindReferenceMissing)
	}
	c := domain.Comment{
		ID: r.s.id(), ArticleID: articleID, Body: in.Body,
		Author: in.Username, CreatedAt: time.Now().UTC(),
	}
	r.s.state.comments = append(r.s.state.comments, c)
	return &c, nil
}

func (r memComments) UpdateVotes(_ context.Context, id int64, inc int) (*domain.Comment, error) {
	for i := range r.s.state.comments {
		if r.s.state.comments[i].ID == id {
			r.s.state.comments[i].Votes += inc
			c := r.s.state.comments[i]
			return &c, nil
		}
	}
	return nil, domain.NewNotFoundError("comment", strconv.FormatInt(id, 10))
}

func (r memComments) Delete(_ context.Context, id int64) error {
	var kept []domain.Comment
	for _, c := range r.s.state.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.s.state.comments = kept
	return nil
}

type memTopics struct{ s *memStore }

func (r memTopics) List(context.Context) ([]domain.Topic, error) {
	return append([]domain.Topic(nil), r.s.state.topics...), nil
}

func (r memTopics) Create(_ context.Context, in domain.NewTopic) (*domain.Topic, error) {
	if r.s.hasTopic(in.Slug) {
		return nil, domain.NewError(domain.KindAlreadyExists)
	}
	t := domain.Topic{Slug: in.Slug, Description: in.Description}
	r.s.state.topics = append(r.s.state.topics, t)
	return &t, nil
}

type memUsers struct{ s *memStore }

func (r memUsers) List(context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), r.s.state.users...), nil
}

func (r memUsers) Get(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.s.state.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.NewNotFoundError("user", username)
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Insert(_ context.Context, event *domain.OutboxEvent) error {
	if r.s.insertEvErr != nil {
		return r.s.insertEvErr
	}
	r.s.state.events = append(r.s.state.events, *event)
	return nil
}

func (r memOutbox) ClaimPending(context.Context, int) ([]domain.OutboxEvent, error) {
	return nil, errors.New("not supported")
}

func (r memOutbox) MarkPublished(context.Context, []uuid.UUID) error { return nil }

func (r memOutbox) MarkFailed(context.Context, uuid.UUID, string) error { return nil }

type memExistence struct{ s *memStore }

func (r memExistence) Exists(_ context.Context, ref domain.ExistenceRef) error {
	r.s.existence = append(r.s.existence, ref)
	found := false
	switch ref.Table {
	case "articles":
		for _, a := range r.s.state.articles {
			found = found || a.ID == ref.Value
		}
	case "comments":
		for _, c := range r.s.state.comments {
			found = found || c.ID == ref.Value
		}
	case "topics":
		found = r.s.hasTopic(ref.Value.(string))
	case "users":
		found = r.s.hasUser(ref.Value.(string))
	}
	if !found {
		return domain.NewNotFoundError(ref.Table, fmt.Sprint(ref.Value))
	}
	return nil
}
