package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"aulanet/httpx"
	"aulanet/models"
	"aulanet/utils"
)

// rowExists reports whether the given id resolves in the table
func rowExists(db *sql.DB, table string, id int) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)", id).Scan(&exists)
	return exists, err
}

// RegisterHandler creates a new user with a role attached
func RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}
	if req.Role == "" {
		req.Role = "student"
	}

	db := c.MustGet("db").(*sql.DB)

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", req.Email).Scan(&count); err != nil {
		httpx.DBError(c, "checking email existence", err)
		return
	}
	if count > 0 {
		httpx.FieldError(c, "email", "The email has already been taken.")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		httpx.DBError(c, "hashing password", err)
		return
	}

	tx, err := db.Begin()
	if err != nil {
		httpx.DBError(c, "starting transaction", err)
		return
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		req.Name, req.Email, hashedPassword,
	)
	if err != nil {
		httpx.DBError(c, "inserting user", err)
		return
	}
	userID, err := result.LastInsertId()
	if err != nil {
		httpx.DBError(c, "retrieving user ID", err)
		return
	}

	if _, err := tx.Exec(
		"INSERT INTO user_roles (user_id, role_id) SELECT ?, id FROM roles WHERE name = ?",
		userID, req.Role,
	); err != nil {
		httpx.DBError(c, "attaching role", err)
		return
	}

	if err := tx.Commit(); err != nil {
		httpx.DBError(c, "committing transaction", err)
		return
	}

	var user models.User
	err = db.QueryRow(
		"SELECT id, name, email, created_at FROM users WHERE id = ?", userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		httpx.DBError(c, "retrieving user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// MeHandler returns the authenticated user
func MeHandler(c *gin.Context) {
	userID := c.MustGet("userID").(int)
	db := c.MustGet("db").(*sql.DB)

	var user models.User
	err := db.QueryRow(
		"SELECT id, name, email, created_at FROM users WHERE id = ?", userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "User")
		} else {
			httpx.DBError(c, "retrieving user", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// LogoutHandler revokes the token used on this request and no other
func LogoutHandler(c *gin.Context) {
	tokenID := c.MustGet("tokenID").(string)
	db := c.MustGet("db").(*sql.DB)

	if _, err := db.Exec("DELETE FROM access_tokens WHERE id = ?", tokenID); err != nil {
		httpx.DBError(c, "revoking access token", err)
		return
	}

	httpx.Message(c, http.StatusOK, "Logout successful")
}
