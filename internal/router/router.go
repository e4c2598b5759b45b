package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "puebla-barf/internal/adapters/storage/memory"
	pg "puebla-barf/internal/adapters/storage/postgres"
	"puebla-barf/internal/config"
	"puebla-barf/internal/domain/delivery"
	"puebla-barf/internal/domain/dogprofiles"
	"puebla-barf/internal/domain/orders"
	"puebla-barf/internal/domain/plan"
	"puebla-barf/internal/domain/subscriptions"
	"puebla-barf/internal/middleware"
	"puebla-barf/internal/platform/logger"
	"puebla-barf/internal/ports/auth"
	"puebla-barf/internal/ports/notify"
	"puebla-barf/internal/ports/photos"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "puebla-barf/docs" // registra la definición Swagger
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si viene nil, fotos van al store in-memory.
	PhotoStore photos.Store

	// Opcional: nil = sin reenvío de pedidos a la hoja.
	Forwarder notify.Forwarder

	Logger logger.Logger

	Prices         plan.PriceTable
	DiscountPerBag int
	BaseURL        string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Logger != nil {
		r.Use(middleware.RequestLog(opts.Logger))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	if opts.Prices == nil {
		opts.Prices = config.DefaultPrices()
	}
	if opts.DiscountPerBag <= 0 {
		opts.DiscountPerBag = plan.DefaultDiscountPerBag
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080"
	}

	var (
		ordersRepo   orders.Repository
		deliveryRepo delivery.Repository
		dogsRepo     dogprofiles.Repository
		subsRepo     subscriptions.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		// Pedido y entrega viven en la misma fila; un solo repo sirve ambos puertos.
		or := pg.NewOrdersRepo(db)
		ordersRepo = or
		deliveryRepo = or
		dogsRepo = pg.NewDogProfilesRepo(db)
		subsRepo = pg.NewSubscriptionsRepo(db)
	} else {
		or := mem.NewOrdersRepo()
		ordersRepo = or
		deliveryRepo = or
		dogsRepo = mem.NewDogProfilesRepo()
		subsRepo = mem.NewSubscriptionsRepo()
	}

	photoStore := opts.PhotoStore
	if photoStore == nil {
		photoStore = mem.NewPhotoStore()
	}

	// Services por módulo
	ordersSvc := orders.NewService(ordersRepo, opts.Forwarder)
	deliverySvc := delivery.NewService(deliveryRepo, photoStore)
	dogsSvc := dogprofiles.NewService(dogsRepo, opts.Prices)
	subsSvc := subscriptions.NewService(subsRepo, opts.Prices, opts.DiscountPerBag)

	// Rutas por módulo
	plan.RegisterRoutes(r, opts.Prices, opts.DiscountPerBag)
	delivery.RegisterRoutes(r, deliverySvc)
	orders.RegisterRoutes(r, ordersSvc, opts.BaseURL)
	dogprofiles.RegisterRoutes(r, dogsSvc, opts.DiscountPerBag)
	subscriptions.RegisterRoutes(r, subsSvc)

	return r
}
