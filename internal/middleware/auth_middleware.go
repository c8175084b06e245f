package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// AuthMiddleware validates an HS256 token from the Authorization header or the
// access_token cookie and exposes user_id and role to later handlers.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			response.FromError(c, ErrTokenMissing)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			response.FromError(c, errObj)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.FromError(c, ErrInvalidToken)
			c.Abort()
			return
		}

		userID := claimString(claims["user_id"])
		if userID == "" {
			response.FromError(c, ErrInvalidToken.WithDetails("user_id claim is missing"))
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		reqLogger := contextutil.GetLogger(ctx, nil).With(zap.String("user_id", userID))
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// JSON numbers decode as float64; issuers in the portal use both forms.
func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t <= 0 {
			return ""
		}
		return strconv.FormatUint(uint64(t), 10)
	default:
		return ""
	}
}

// ActorID returns the authenticated user id as a number.
func ActorID(c *gin.Context) (uint64, bool) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func ActorRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
