package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionKey = "session_id"

// Session attaches a session id from the named cookie, issuing a new one
// when the cookie is missing or malformed. The cookie has no Max-Age.
func Session(cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := ctx.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			http.SetCookie(ctx.Writer, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx.Set(SessionKey, id)
		ctx.Next()
	}
}

// SessionID returns the id set by Session.
func SessionID(ctx *gin.Context) string {
	return ctx.GetString(SessionKey)
}
