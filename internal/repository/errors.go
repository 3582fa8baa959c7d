package repository

import "errors"

// Errores centinela compartidos por los repositorios. Los handlers los
// traducen a codigos HTTP; el detalle del driver nunca cruza esta capa
// hacia el cliente.
var (
	// ErrNotFound indica que el registro pedido no existe.
	ErrNotFound = errors.New("repository: record not found")
	// ErrUserNotFound indica que el usuario referenciado no existe,
	// incluida la violacion de clave foranea al crear mensajes.
	ErrUserNotFound = errors.New("repository: user not found")
)
