package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const TokenTTL = 7 * 24 * time.Hour

type UserLoader interface {
	GetUserByID(id int) (*model.User, error)
}

type AdminLoader interface {
	GetAdminByID(id int) (*model.Admin, error)
}

// Claims is the decoded form of a session token.
type Claims struct {
	Subject  int
	FamilyID *int
	Admin    bool
}

// signs a token embedding userID in the “sub” claim and the family in “fam”.
func GenerateJWT(user *model.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID,
		"adm": false,
		"exp": time.Now().Add(TokenTTL).Unix(),
	}
	if user.FamilyID != nil {
		claims["fam"] = *user.FamilyID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func GenerateAdminJWT(adminID int, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": adminID,
		"adm": true,
		"exp": time.Now().Add(TokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	sub, ok := mc["sub"].(float64)
	if !ok {
		return nil, errors.New("invalid sub claim")
	}
	out := &Claims{Subject: int(sub)}
	if fam, ok := mc["fam"].(float64); ok {
		id := int(fam)
		out.FamilyID = &id
	}
	out.Admin, _ = mc["adm"].(bool)
	return out, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth header"})
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth header"})
		return "", false
	}
	return parts[1], true
}

// checks “Authorization: Bearer <token>”, verifies it, loads user, and sets “currentUser” in context.
// Users of a deactivated family are turned away here so no module has to check it.
func JWTMiddleware(secret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := ParseToken(raw, secret)
		if err != nil || claims.Admin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := users.GetUserByID(claims.Subject)
		if err != nil {
			log.Warn().Err(err).Int("user_id", claims.Subject).Msg("token for unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if user.FamilyActive != nil && !*user.FamilyActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Family account is deactivated"})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AdminMiddleware accepts only tokens minted by GenerateAdminJWT for an active admin.
func AdminMiddleware(secret string, admins AdminLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := ParseToken(raw, secret)
		if err != nil || !claims.Admin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}

		admin, err := admins.GetAdminByID(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin account is disabled"})
			return
		}
		c.Set(currentAdminKey, admin)
		c.Next()
	}
}

// OptionalJWT loads the user when a valid user token is present and lets
// anonymous requests through untouched.
func OptionalJWT(secret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		claims, err := ParseToken(parts[1], secret)
		if err != nil || claims.Admin {
			c.Next()
			return
		}
		if user, err := users.GetUserByID(claims.Subject); err == nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}
