package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Cooperative back-office API v1"})
}
