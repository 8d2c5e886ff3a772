package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const (
	currentUserKey  = "currentUser"
	currentAdminKey = "currentAdmin"
)

// uses bcrypt to hash a plaintext password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// compares a bcrypt hash with the plaintext.
func CheckPassword(hash, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// retrieves *model.User from Gin context (after JWTMiddleware has run).
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	u, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := u.(*model.User)
	return user, ok
}

// SetCurrentUser is what JWTMiddleware does after loading the user; handler tests call it directly.
func SetCurrentUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func GetCurrentAdmin(c *gin.Context) (*model.Admin, bool) {
	a, exists := c.Get(currentAdminKey)
	if !exists {
		return nil, false
	}
	admin, ok := a.(*model.Admin)
	return admin, ok
}

func SetCurrentAdmin(admin *model.Admin) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(currentAdminKey, admin)
		c.Next()
	}
}
