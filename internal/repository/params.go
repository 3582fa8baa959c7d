package repository

// Limites de paginacion y proyeccion. Todo listado queda acotado sin
// importar lo que pida el cliente.
const (
	DefaultLimit = 20
	MaxLimit     = 50

	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

// ClampLimit normaliza un limite pedido al rango permitido.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampHistoryLimit normaliza el tamaño del historial de mensajes.
// Un valor negativo pide explicitamente cero historial.
func ClampHistoryLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

// ClampOffset descarta offsets negativos.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
