package photos

import (
	"context"
	"time"
)

// SignedUpload es el resultado de subir una foto de entrega:
// una URL firmada con vigencia limitada (7 días en producción).
type SignedUpload struct {
	URL       string
	ExpiresAt time.Time
}

// Store guarda fotos de comprobante de entrega y devuelve una URL firmada.
// La validación de tamaño y MIME ocurre antes, en el servicio; el Store
// solo persiste bytes ya aceptados.
type Store interface {
	Save(ctx context.Context, key, contentType string, data []byte) (SignedUpload, error)
}
