package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"relaychat/internal/app/chat"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

// GuestUserType marks identity tokens issued by this server.
const GuestUserType = "guest"

// SessionInput defines the JSON input structure for POST /api/session.
type SessionInput struct {
	Username string `json:"username"`
}

// SessionResponse carries a signed identity token for the requested display name.
type SessionResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HandleIssueSession signs a guest identity token for a display name. The
// token is presented on the WebSocket upgrade; the relay does not check
// whether the name is already online.
func HandleIssueSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SessionInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		username, err := chat.NormalizeUsername(input.Username)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		payload := &jwt.Payload{
			ID:       uuid.NewString(),
			Username: username,
			UserType: GuestUserType,
		}

		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.IdentityExpiration)
		if err != nil {
			logx.Error(err, "Failed to sign identity token", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, SessionResponse{
			Token:     token,
			Username:  username,
			ExpiresAt: time.Unix(payload.ExpiresAt, 0).UTC(),
		})
	}
}
