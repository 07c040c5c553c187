package monitor

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// adminClaims is the minimal claim set an admin bearer token carries.
type adminClaims struct {
	jwt.RegisteredClaims
}

// GenerateAdminToken mints a bearer token valid for ttl, signed with
// jwtSecret. Operators run this out of band (e.g. from the CLI) to issue
// themselves a token; the monitor has no user database to authenticate
// against.
func GenerateAdminToken(jwtSecret []byte, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// authMiddleware rejects requests lacking a valid "Bearer <token>"
// Authorization header signed with jwtSecret.
func authMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !validAdminToken(tokenStr, jwtSecret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid bearer token"})
			return
		}
		c.Next()
	}
}

// validAdminToken reports whether tokenStr is a well-formed, unexpired
// token signed with jwtSecret.
func validAdminToken(tokenStr string, jwtSecret []byte) bool {
	if tokenStr == "" {
		return false
	}
	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	return err == nil
}
