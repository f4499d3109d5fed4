package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimsKey = "claims"
	RoleAdmin = "admin"
)

// Claims identify the learner on whose behalf a request runs. Tokens are
// issued by the external identity service; this API only verifies them.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for userID. Used by tooling and tests.
func IssueToken(secret, issuer string, userID int64, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies signature, expiry and issuer.
func ParseToken(tokenString, secret, issuer string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("parse token: invalid claims")
	}
	if claims.UserID <= 0 {
		return nil, errors.New("parse token: missing user_id")
	}

	return claims, nil
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			unauthorized(c)
			return
		}

		claims, err := ParseToken(tokenString, h.jwtSecret, h.jwtIssuer)
		if err != nil {
			h.logger.Debug("rejected bearer token")
			unauthorized(c)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromContext(c)
		if claims == nil {
			unauthorized(c)
			return
		}
		if claims.Role != role {
			forbidden(c)
			return
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) *Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// currentUserID is the identity capability every core call receives.
func currentUserID(c *gin.Context) int64 {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return 0
}
