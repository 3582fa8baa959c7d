package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-api/internal/config"
	"board-api/internal/db"
	"board-api/internal/domain"
	"board-api/internal/repository"
)

const requestContextKey = "requestContext"

// RequestContext acompaña cada request con los accesores de modelo y la
// resolucion del usuario actual segun la politica configurada.
type RequestContext struct {
	Users    repository.UserRepository
	Messages repository.MessageRepository

	logger     *zap.Logger
	lifecycle  *db.Lifecycle
	authMode   string
	authUserID int64

	resolved bool
	me       *domain.User
}

// markDisconnected vuelca la maquina de estados ante una falla de
// conectividad detectada en un handler, para que el proximo request
// rehaga el handshake en vez de reusar un pool roto.
func (rc *RequestContext) markDisconnected() {
	if rc.lifecycle != nil {
		rc.lifecycle.MarkDisconnected()
	}
}

// CurrentUser resuelve el usuario actual. Con politica lazy la primera
// llamada hace el lookup y memoiza; con eager ya viene resuelto desde el
// middleware; con none siempre es nil. Un lookup fallido degrada a "sin
// usuario": la decision de autorizar queda en el handler que lo necesite.
func (rc *RequestContext) CurrentUser(ctx context.Context) *domain.User {
	if rc.resolved {
		return rc.me
	}
	rc.resolved = true

	if rc.authMode == config.AuthModeNone {
		return nil
	}

	user, err := rc.Users.GetByID(ctx, rc.authUserID, -1)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			rc.logger.Warn("current user lookup failed", zap.Error(err))
		}
		return nil
	}
	rc.me = &user
	return rc.me
}

// RequestContextMiddleware arma el contexto por request: asegura la
// conexion (cortando con 500 si el handshake falla), cuelga los
// repositorios del pool verificado y, tras enviar la respuesta, corre el
// hook de liberacion de conexiones ociosas en modo serverless.
func RequestContextMiddleware(logger *zap.Logger, cfg *config.Config, lifecycle *db.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		// La ventana de adquisicion acota todo el request: un pool
		// saturado falla aca en vez de colgar indefinidamente.
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.DBAcquireTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		pool, err := lifecycle.EnsureConnected(ctx)
		if err != nil {
			logger.Error("database handshake failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "service unavailable"})
			return
		}

		rc := &RequestContext{
			Users:      repository.NewPgUserRepository(pool),
			Messages:   repository.NewPgMessageRepository(pool),
			logger:     logger,
			lifecycle:  lifecycle,
			authMode:   cfg.AuthMode,
			authUserID: cfg.AuthUserID,
		}
		if cfg.AuthMode == config.AuthModeEager {
			rc.CurrentUser(ctx)
		}
		c.Set(requestContextKey, rc)

		// Diferido para que el hook corra en todo camino de salida,
		// incluido un panic que Recovery atrape mas arriba.
		if cfg.IsServerless() {
			defer lifecycle.ReleaseIdle()
		}

		c.Next()
	}
}

// RequestContextFrom recupera el contexto armado por el middleware.
func RequestContextFrom(c *gin.Context) *RequestContext {
	value, ok := c.Get(requestContextKey)
	if !ok {
		return nil
	}
	rc, _ := value.(*RequestContext)
	return rc
}
