package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Admin auth guards product mutations. It is disabled entirely when no
// ADMIN_PASSWORD_HASH is configured, which matches the open default of
// the public API.

func (s *server) adminLogin(c *gin.Context) {
	if !s.cfg.AdminAuthEnabled() {
		abortDetail(c, http.StatusNotFound, "Admin login is not configured")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "Invalid login payload")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)) != nil {
		abortDetail(c, http.StatusUnauthorized, "Wrong password")
		return
	}

	claims := jwt.StandardClaims{
		Subject:   "admin",
		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.fail(c, err, "Error issuing token")
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: gin.H{"token": signed}})
}

func (s *server) adminRequired(c *gin.Context) {
	if !s.cfg.AdminAuthEnabled() {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		abortDetail(c, http.StatusUnauthorized, "Missing token")
		return
	}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &jwt.StandardClaims{},
		func(*jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		})
	if err != nil || !token.Valid {
		abortDetail(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	c.Next()
}
