package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	// ErrOffline indica fallo de transporte con el servidor Grocy; no es fatal,
	// el reintento siempre lo dispara el usuario.
	ErrOffline = errors.New("sin conexión con el servidor")
	// ErrStaleCache indica una inconsistencia de caché (ej. stock sin producto);
	// se recupera invalidando las colecciones afectadas en la próxima sincronización.
	ErrStaleCache = errors.New("caché local desfasada")
)
