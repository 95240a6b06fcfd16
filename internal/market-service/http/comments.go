package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/dto"
	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// createComment cria um comentário e faz broadcast via publisher injetado
// (Redis Pub/Sub -> hub WebSocket); nenhuma instância global envolvida
func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Content and marketId are required")
		return
	}

	c, err := s.comments.CreateComment(r.Context(), req.MarketID, req.UserID, req.Text)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	metricCommentsPosted.Inc()

	if err := s.events.PublishComment(r.Context(), events.CommentPosted{
		CommentID: c.ID,
		MarketID:  c.MarketID,
		User:      c.Username,
		Text:      c.Text,
		LikeCount: c.LikeCount,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}); err != nil {
		s.log.Warn("publish comment", zap.String("commentId", c.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, c)
}

// listComments retorna os comentários de um mercado com o flag liked do
// usuário informado em ?userId=
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	marketID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")

	comments, err := s.comments.ListCommentsByMarket(r.Context(), marketID, userID)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, dto.CommentListResponse{Comments: comments})
}

func (s *Server) likeComment(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	if err := s.comments.LikeComment(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "liked"})
}

func (s *Server) unlikeComment(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	if err := s.comments.UnlikeComment(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "unliked"})
}

// deleteComment remove um comentário; apenas o autor (?userId=) pode remover
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	if err := s.comments.DeleteComment(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}
