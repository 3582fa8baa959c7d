package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-api/internal/repository"
)

// handleStorageError traduce fallas de la capa de persistencia al codigo
// HTTP correspondiente. Cualquier falla inesperada responde un 500 con
// mensaje generico; el detalle queda solo en el log. Las fallas de
// conectividad ademas vuelcan la maquina de estados a Disconnected.
func handleStorageError(c *gin.Context, logger *zap.Logger, err error, notFoundMsg, genericMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		logger.Error(genericMsg, zap.Error(err))
		if isConnectivityError(err) {
			if rc := RequestContextFrom(c); rc != nil {
				rc.markDisconnected()
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericMsg})
	}
}

// isConnectivityError distingue fallas de conexion (socket roto, ventana
// de adquisicion vencida) de otros errores de storage.
func isConnectivityError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
