package delivery

import (
	"context"
	"errors"
	"strings"
	"time"

	"puebla-barf/internal/domain/orders"
	"puebla-barf/internal/ports/photos"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyConfirmed = errors.New("already confirmed")
	ErrPhotoRequired    = errors.New("photo required for delivered status")
	ErrPhotoTooLarge    = errors.New("photo exceeds size limit")
	ErrPhotoNotImage    = errors.New("photo must be an image")
)

// MaxPhotoBytes es el tope de tamaño del comprobante de entrega.
const MaxPhotoBytes = 5 << 20 // 5MB

type Service struct {
	repo   Repository
	photos photos.Store
	now    func() time.Time
}

func NewService(repo Repository, store photos.Store) *Service {
	return &Service{
		repo:   repo,
		photos: store,
		now:    time.Now,
	}
}

// GetOrderByToken devuelve la proyección del pedido para el repartidor.
// Token desconocido → ErrNotFound, sin distinguir "no existe" de
// "token mal formado" (no se filtra la existencia de otros pedidos).
// La lectura no tiene efectos y es repetible.
func (s *Service) GetOrderByToken(ctx context.Context, token string) (OrderView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return OrderView{}, ErrNotFound
	}
	o, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return OrderView{}, ErrNotFound
	}
	return toView(o), nil
}

type ConfirmInput struct {
	DriverStatus orders.DriverStatus
	Notes        string
	PhotoURL     string
}

// Confirm fija el desenlace del repartidor. Es una acción terminal de un
// solo disparo: la escritura la resuelve el storage con un update
// condicional, así que una segunda confirmación (incluso concurrente)
// recibe ErrAlreadyConfirmed y el estado guardado no cambia.
// "delivered" exige foto; se valida aquí como fuente de verdad aunque el
// cliente ya lo valide antes (fail fast, sin estado parcial).
func (s *Service) Confirm(ctx context.Context, token string, in ConfirmInput) (OrderView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return OrderView{}, ErrNotFound
	}
	if !orders.ValidDriverStatus(in.DriverStatus) {
		return OrderView{}, ErrInvalidInput
	}

	photoURL := strings.TrimSpace(in.PhotoURL)
	if in.DriverStatus == orders.DriverDelivered && photoURL == "" {
		return OrderView{}, ErrPhotoRequired
	}

	o, err := s.repo.ConfirmByToken(ctx, Confirmation{
		Token:        token,
		DriverStatus: in.DriverStatus,
		Notes:        strings.TrimSpace(in.Notes),
		PhotoURL:     photoURL,
		ConfirmedAt:  s.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyConfirmed):
			return OrderView{}, ErrAlreadyConfirmed
		case errors.Is(err, ErrNotFound):
			return OrderView{}, ErrNotFound
		default:
			return OrderView{}, err
		}
	}
	return toView(o), nil
}

// UploadPhoto valida y guarda el comprobante, devolviendo la URL firmada
// (vigencia limitada en el storage) que luego viaja en Confirm.
// Tope 5MB y MIME de imagen detectado del contenido, no del header.
func (s *Service) UploadPhoto(ctx context.Context, token string, data []byte) (photos.SignedUpload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return photos.SignedUpload{}, ErrNotFound
	}

	// El token debe corresponder a un pedido real antes de tocar storage.
	o, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return photos.SignedUpload{}, ErrNotFound
	}
	if o.DriverStatus != orders.DriverPending {
		return photos.SignedUpload{}, ErrAlreadyConfirmed
	}

	if len(data) == 0 {
		return photos.SignedUpload{}, ErrInvalidInput
	}
	if len(data) > MaxPhotoBytes {
		return photos.SignedUpload{}, ErrPhotoTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return photos.SignedUpload{}, ErrPhotoNotImage
	}

	key := "delivery-photos/" + o.ID + "/" + uuid.NewString() + mt.Extension()
	return s.photos.Save(ctx, key, mt.String(), data)
}
