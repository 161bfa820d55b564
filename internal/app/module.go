package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// Each module registers its routes on the public group, the authenticated
// group, or both.
type Module interface {
	RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup)
}
