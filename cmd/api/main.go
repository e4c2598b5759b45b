package main

import (
	"log"
	"net/http"
	"time"

	authsb "puebla-barf/internal/adapters/auth/supabase"
	notifyzap "puebla-barf/internal/adapters/notify/zapier"
	photosb "puebla-barf/internal/adapters/photos/supabase"
	"puebla-barf/internal/config"
	"puebla-barf/internal/platform/logger"
	"puebla-barf/internal/ports/auth"
	"puebla-barf/internal/ports/notify"
	"puebla-barf/internal/ports/photos"
	"puebla-barf/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "puebla-barf",
	})

	// Verifier Supabase solo si hay proyecto configurado; sin él queda el modo dev.
	var verifier auth.AuthVerifier
	if cfg.Supabase.BaseURL != "" && cfg.Supabase.AnonKey != "" {
		verifier = authsb.NewVerifier(authsb.NewClient(authsb.Config{
			BaseURL: cfg.Supabase.BaseURL,
			AnonKey: cfg.Supabase.AnonKey,
			Timeout: cfg.Supabase.Timeout,
		}))
		lg.Info("auth verifier habilitado", map[string]any{"base_url": cfg.Supabase.BaseURL})
	} else {
		lg.Warn("sin verifier: solo X-Debug-User-ID", nil)
	}

	var photoStore photos.Store
	if store, err := photosb.New(photosb.Config{
		BaseURL:    cfg.Supabase.BaseURL,
		ServiceKey: cfg.Supabase.ServiceKey,
		Bucket:     cfg.Supabase.PhotoBucket,
		Timeout:    cfg.Supabase.Timeout,
	}); err == nil {
		photoStore = store
		lg.Info("fotos en supabase storage", map[string]any{"bucket": cfg.Supabase.PhotoBucket})
	} else {
		lg.Warn("fotos in-memory (storage no configurado)", map[string]any{"reason": err.Error()})
	}

	var forwarder notify.Forwarder
	if fw, err := notifyzap.New(cfg.Zapier.HookURL, cfg.Zapier.Timeout); err == nil {
		forwarder = fw
		lg.Info("reenvío de pedidos habilitado", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier:   verifier,
		PhotoStore:     photoStore,
		Forwarder:      forwarder,
		Logger:         lg,
		Prices:         cfg.Prices,
		DiscountPerBag: cfg.DiscountPerBag,
		BaseURL:        cfg.BaseURL,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // subida de fotos incluida
	}

	lg.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
