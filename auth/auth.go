package auth

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aulanet/httpx"
	"aulanet/models"
	"aulanet/utils"
)

// LoginHandler authenticates a user and returns a bearer token
func LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	db := c.MustGet("db").(*sql.DB)
	var user models.User
	err := db.QueryRow(
		"SELECT id, name, email, password, created_at FROM users WHERE email = ?",
		req.Email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			httpx.Message(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			httpx.DBError(c, "querying user", err)
		}
		return
	}

	if err := utils.ComparePassword(user.Password, req.Password); err != nil {
		httpx.Message(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenID := uuid.NewString()
	if _, err := db.Exec(
		"INSERT INTO access_tokens (id, user_id) VALUES (?, ?)",
		tokenID, user.ID,
	); err != nil {
		httpx.DBError(c, "creating access token", err)
		return
	}

	tokenString, err := GenerateToken(user.ID, tokenID)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		httpx.Message(c, http.StatusInternalServerError, "Error generating token")
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

// AuthMiddleware verifies the bearer token and checks that its backing
// access_tokens row has not been revoked
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		userID, tokenID, err := ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		db := c.MustGet("db").(*sql.DB)
		var exists bool
		err = db.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM access_tokens WHERE id = ?)", tokenID,
		).Scan(&exists)
		if err != nil {
			log.Printf("Error checking access token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		// Best effort; a failed touch must not fail the request.
		if _, err := db.Exec(
			"UPDATE access_tokens SET last_used_at = NOW() WHERE id = ?", tokenID,
		); err != nil {
			log.Printf("Error touching access token: %v", err)
		}

		c.Set("userID", userID)
		c.Set("tokenID", tokenID)
		c.Next()
	}
}
