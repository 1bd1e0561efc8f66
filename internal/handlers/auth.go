package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/status-beacon/beacon/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the operator password for a bearer token. The expected
// bcrypt hash comes from ADMIN_PASSWORD_HASH; there is no user table.
func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")

	if passwordHash == "" {
		log.Println("ADMIN_PASSWORD_HASH is not set; login disabled")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login is not configured"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT("admin")

	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
