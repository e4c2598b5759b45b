package auth

import "context"

// AuthVerifier verifica un token de staff y devuelve claims o error.
// El flujo del repartidor NO pasa por aquí: esa credencial es el
// delivery token (capability), con garantías distintas.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
