package websocket

import (
	"log"
	"net/http"
	"time"

	"biasbuster-backend/internal/domain"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

type Handler struct {
	repo domain.SnapshotRepository
}

func NewHandler(repo domain.SnapshotRepository) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Println("New Client Connected")

	// Send current snapshot immediately
	doc := h.repo.Latest()
	if err := conn.WriteJSON(doc); err != nil {
		log.Println("Write error:", err)
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		doc := h.repo.Latest()
		if err := conn.WriteJSON(doc); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}
