package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"puebla-barf/internal/platform/httpclient"
	"puebla-barf/internal/ports/photos"
)

var (
	ErrNotConfigured = errors.New("photo storage not configured")
)

// SignedURLTTL es la vigencia de la URL firmada del comprobante (7 días).
const SignedURLTTL = 7 * 24 * time.Hour

// Config del bucket de fotos de entrega (Supabase Storage).
type Config struct {
	BaseURL    string // https://<proyecto>.supabase.co
	ServiceKey string
	Bucket     string

	Timeout time.Duration
}

// Store implementa photos.Store subiendo el objeto y firmando la URL en
// dos llamadas al Storage API. La validación de tamaño/MIME ya ocurrió
// en el servicio; aquí solo se persisten bytes aceptados.
type Store struct {
	client *httpclient.Client
	apiKey string
	bucket string
	now    func() time.Time
}

func New(cfg Config) (*Store, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	apiKey := strings.TrimSpace(cfg.ServiceKey)
	bucket := strings.TrimSpace(cfg.Bucket)
	if baseURL == "" || apiKey == "" || bucket == "" {
		return nil, ErrNotConfigured
	}

	client, err := httpclient.NewWithBaseURL(baseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		apiKey: apiKey,
		bucket: bucket,
		now:    time.Now,
	}, nil
}

func (s *Store) Save(ctx context.Context, key, contentType string, data []byte) (photos.SignedUpload, error) {
	if s == nil || s.client == nil {
		return photos.SignedUpload{}, ErrNotConfigured
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" || len(data) == 0 {
		return photos.SignedUpload{}, errors.New("photo key and data required")
	}

	headers := map[string]string{
		"Authorization": "Bearer " + s.apiKey,
		"apikey":        s.apiKey,
	}

	// 1) Subir el objeto al bucket.
	uploadPath := "/storage/v1/object/" + s.bucket + "/" + key
	if err := s.client.DoBytes(ctx, http.MethodPost, uploadPath, headers, contentType, data, nil); err != nil {
		return photos.SignedUpload{}, fmt.Errorf("upload photo: %w", err)
	}

	// 2) Pedir la URL firmada con vigencia de 7 días.
	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	signPath := "/storage/v1/object/sign/" + s.bucket + "/" + key
	in := map[string]int{"expiresIn": int(SignedURLTTL / time.Second)}
	if err := s.client.DoJSON(ctx, http.MethodPost, signPath, headers, in, &signed); err != nil {
		return photos.SignedUpload{}, fmt.Errorf("sign photo url: %w", err)
	}
	if strings.TrimSpace(signed.SignedURL) == "" {
		return photos.SignedUpload{}, errors.New("storage response missing signed url")
	}

	// El API devuelve un path relativo (/object/sign/...?token=...).
	url := signed.SignedURL
	if strings.HasPrefix(url, "/") {
		url = s.client.BaseURL + "/storage/v1" + url
	}

	return photos.SignedUpload{
		URL:       url,
		ExpiresAt: s.now().Add(SignedURLTTL),
	}, nil
}
