package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/xhad/memogen/internal/logger"
	"github.com/xhad/memogen/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

// Message is the wire format for both directions: a type tag, the query or
// response text, and optional structured data.
type Message struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Data    any    `json:"data,omitempty"`
}

type Config struct {
	Addr string
	TopN int
}

// Server exposes semantic search and document analysis over a websocket.
// Each incoming message is handled sequentially on its connection.
type Server struct {
	config Config
	client types.Generator
	store  types.VectorStore
	logger zerolog.Logger
}

func New(config Config, client types.Generator, store types.VectorStore, logger zerolog.Logger) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.TopN == 0 {
		config.TopN = 5
	}
	return &Server{
		config: config,
		client: client,
		store:  store,
		logger: logger,
	}
}

func (s *Server) Start() error {
	http.HandleFunc("/ws", s.handleWS)
	s.logger.Info().Str("addr", s.config.Addr).Msg("server listening")
	return http.ListenAndServe(s.config.Addr, nil)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := logger.WithContext(r.Context(), s.logger)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		reply := s.handle(ctx, msg)
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Error().Err(err).Msg("failed to write response")
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, msg Message) Message {
	switch msg.Type {
	case "search":
		results, err := s.store.SemanticSearch(ctx, msg.Content, s.config.TopN, nil)
		if err != nil {
			return errorMessage(ctx, msg.Type, err)
		}
		return Message{Type: "results", Data: results}

	case "ask":
		results, err := s.store.SemanticSearch(ctx, msg.Content, s.config.TopN, nil)
		if err != nil {
			return errorMessage(ctx, msg.Type, err)
		}

		docs := make([]string, len(results))
		for i, r := range results {
			docs[i] = r.Content
		}

		answer, err := s.client.AnalyzeDocuments(ctx, docs, msg.Content)
		if err != nil {
			return errorMessage(ctx, msg.Type, err)
		}
		return Message{Type: "answer", Content: answer}

	case "financial":
		entries, err := s.store.GetFinancialData(ctx, msg.Content, "")
		if err != nil {
			return errorMessage(ctx, msg.Type, err)
		}
		return Message{Type: "financial", Data: entries}

	default:
		return errorMessage(ctx, msg.Type, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// errorMessage logs the failure through the connection's context logger and
// renders it as an error reply.
func errorMessage(ctx context.Context, msgType string, err error) Message {
	log := logger.FromContext(ctx)
	log.Error().Err(err).Str("type", msgType).Msg("request failed")
	return Message{Type: "error", Content: err.Error()}
}
