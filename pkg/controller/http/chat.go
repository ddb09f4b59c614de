package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// ChatHandler serves the streaming chat endpoint
type ChatHandler struct {
	chatUC interfaces.ChatUseCase
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatUC interfaces.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUC: chatUC}
}

// streamWriter defers the response header until the first chunk so that
// failures before any output can still be answered with an error status
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func (s *streamWriter) Write(p []byte) (int, error) {
	if !s.started {
		s.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("X-Accel-Buffering", "no")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	n, err := s.w.Write(p)
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return n, err
}

// Stream answers a question and streams the answer as plain text
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, goerr.Wrap(err, "invalid JSON body", goerr.T(types.ErrTagInvalidArgument)))
		return
	}

	flusher, _ := w.(http.Flusher)
	sw := &streamWriter{w: w, flusher: flusher}

	if err := h.chatUC.StreamChat(r.Context(), &req, sw); err != nil {
		if !sw.started {
			handleError(w, r, err)
			return
		}
		// Status is already sent, the error can only be appended to the text
		ctxlog.From(r.Context()).Error("Chat stream interrupted", "error", err)
		_, _ = sw.Write([]byte("\nError: " + err.Error()))
		return
	}

	if !sw.started {
		_, _ = sw.Write(nil)
	}
}
