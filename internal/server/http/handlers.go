package httpserver

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/observability"
)

const maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies

// getEndpoints handles GET /api.
func (s *Server) getEndpoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, endpointsResponse{Endpoints: endpointCatalogue})
}

// listArticles handles GET /articles.
func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	page, err := s.articles.List(r.Context(), r.URL.Query())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articlesResponse{
		Articles:   nonNil(page.Items),
		TotalCount: page.TotalCount,
	})
}

// createArticle handles POST /articles.
func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var req domain.NewArticle
	if !s.decodeBody(w, r, &req) {
		return
	}

	article, err := s.articles.Create(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, articleResponse{Article: article})
}

// getArticle handles GET /articles/{articleID}.
func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "articleID")
	if !ok {
		return
	}

	article, err := s.articles.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleResponse{Article: article})
}

// patchArticle handles PATCH /articles/{articleID}.
func (s *Server) patchArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "articleID")
	if !ok {
		return
	}
	var req domain.VoteUpdate
	if !s.decodeBody(w, r, &req) {
		return
	}

	article, err := s.articles.UpdateVotes(r.Context(), id, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleResponse{Article: article})
}

// deleteArticle handles DELETE /articles/{articleID}.
func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "articleID")
	if !ok {
		return
	}

	if err := s.articles.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listArticleComments handles GET /articles/{articleID}/comments.
func (s *Server) listArticleComments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "articleID")
	if !ok {
		return
	}

	page, err := s.comments.ListByArticle(r.Context(), id, r.URL.Query())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentsResponse{
		Comments:   nonNil(page.Items),
		TotalCount: page.TotalCount,
	})
}

// createArticleComment handles POST /articles/{articleID}/comments.
func (s *Server) createArticleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "articleID")
	if !ok {
		return
	}
	var req domain.NewComment
	if !s.decodeBody(w, r, &req) {
		return
	}

	comment, err := s.comments.Create(r.Context(), id, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentResponse{Comment: comment})
}

// patchComment handles PATCH /comments/{commentID}.
func (s *Server) patchComment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "commentID")
	if !ok {
		return
	}
	var req domain.VoteUpdate
	if !s.decodeBody(w, r, &req) {
		return
	}

	comment, err := s.comments.UpdateVotes(r.Context(), id, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentResponse{Comment: comment})
}

// deleteComment handles DELETE /comments/{commentID}.
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "commentID")
	if !ok {
		return
	}

	if err := s.comments.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listTopics handles GET /topics.
func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.topics.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topicsResponse{Topics: nonNil(topics)})
}

// createTopic handles POST /topics.
func (s *Server) createTopic(w http.ResponseWriter, r *http.Request) {
	var req domain.NewTopic
	if !s.decodeBody(w, r, &req) {
		return
	}

	topic, err := s.topics.Create(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, topicResponse{Topic: topic})
}

// listUsers handles GET /users.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: nonNil(users)})
}

// getUser handles GET /users/{username}.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// statusForKind is the single mapping from error kind to HTTP status.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidQueryShape,
		domain.KindInvalidSortColumn,
		domain.KindInvalidOrder,
		domain.KindInvalidLimit,
		domain.KindInvalidPage,
		domain.KindBadRequest,
		domain.KindAlreadyExists:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindReferenceMissing:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError maps a domain error to its status and writes {"msg"}.
// Internal error details are logged, never sent to clients.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if s.metrics != nil {
		s.metrics.RecordDomainError(kind.String())
	}

	if status == http.StatusInternalServerError {
		logger := observability.WithRequestFields(s.logger,
			observability.CorrelationIDFromContext(r.Context()), r.Method, r.URL.Path)
		logger.Error().Err(err).Msg("request failed")
		writeError(w, status, domain.KindInternal.DefaultMessage())
		return
	}

	writeError(w, status, kind.DefaultMessage())
}

// pathID parses a positive integer id from a path parameter, writing a 400
// response when it is malformed. Signs, spaces and values past MaxInt32 are
// rejected.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		s.writeDomainError(w, r, domain.NewBadRequestError("invalid "+param))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 || id > math.MaxInt32 {
		s.writeDomainError(w, r, domain.NewBadRequestError("invalid "+param))
		return 0, false
	}
	return id, true
}

// decodeBody reads a bounded JSON body into v, writing a 400 response when it
// cannot be decoded. Unknown fields are ignored.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		s.writeDomainError(w, r, domain.WrapError(domain.KindBadRequest, err))
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		s.writeDomainError(w, r, domain.WrapError(domain.KindBadRequest, err))
		return false
	}
	return true
}
