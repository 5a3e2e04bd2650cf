package handler

import (
	"net/http"

	"relaychat/internal/app/chat"
	"relaychat/internal/pkg/resp"
)

// RecentMessagesResponse is the body of GET /api/messages.
type RecentMessagesResponse struct {
	Messages []chat.Message `json:"messages"`
}

// HandleRecentMessages returns the retained global-room messages, oldest first.
func HandleRecentMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, RecentMessagesResponse{Messages: deps.Coordinator.RecentMessages()})
	}
}

// HandleOnlineUsers returns the presence list in join order.
func HandleOnlineUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := deps.Coordinator.OnlineUsers()
		resp.RespondSuccess(w, r, map[string]any{
			"users": users,
			"count": len(users),
		})
	}
}
