package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"puebla-barf/internal/domain/plan"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config junta todo lo que el binario necesita de env + archivos.
type Config struct {
	Port    string
	BaseURL string // base pública para armar links de entrega
	DBDSN   string // vacío = repos in-memory

	LogLevel  string
	LogFormat string

	Prices         plan.PriceTable
	DiscountPerBag int

	Supabase Supabase
	Zapier   Zapier
}

type Supabase struct {
	BaseURL     string
	AnonKey     string
	ServiceKey  string
	PhotoBucket string
	Timeout     time.Duration
}

type Zapier struct {
	HookURL string
	Timeout time.Duration
}

// Load carga .env (si existe), lee env y el archivo de precios.
// El .env ausente no es error: en prod las vars vienen del entorno.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:      getenv("PORT", "8080"),
		BaseURL:   strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),
		DBDSN:     os.Getenv("DB_DSN"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
		Supabase: Supabase{
			BaseURL:     strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			AnonKey:     os.Getenv("SUPABASE_ANON_KEY"),
			ServiceKey:  os.Getenv("SUPABASE_SERVICE_KEY"),
			PhotoBucket: getenv("SUPABASE_PHOTO_BUCKET", "delivery-photos"),
			Timeout:     getenvDuration("SUPABASE_TIMEOUT", 10*time.Second),
		},
		Zapier: Zapier{
			HookURL: os.Getenv("ZAPIER_HOOK_URL"),
			Timeout: getenvDuration("ZAPIER_TIMEOUT", 5*time.Second),
		},
	}

	prices, discount, err := loadPrices(os.Getenv("PRICES_FILE"))
	if err != nil {
		return Config{}, err
	}
	cfg.Prices = prices
	cfg.DiscountPerBag = discount

	return cfg, nil
}

// pricesFile es el shape del YAML de precios. Ejemplo:
//
//	discount_per_bag: 10
//	lines:
//	  pollo: {kg_bag: 80, half_kg_bag: 60}
//	  res:   {kg_bag: 90, half_kg_bag: 70}
type pricesFile struct {
	DiscountPerBag int                         `yaml:"discount_per_bag"`
	Lines          map[string]plan.LinePricing `yaml:"lines"`
}

// loadPrices lee el YAML de precios; sin path devuelve los defaults.
func loadPrices(path string) (plan.PriceTable, int, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPrices(), plan.DefaultDiscountPerBag, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return plan.PriceTable{}, 0, fmt.Errorf("config: leyendo %s: %w", path, err)
	}

	var pf pricesFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return plan.PriceTable{}, 0, fmt.Errorf("config: parseando %s: %w", path, err)
	}
	if len(pf.Lines) == 0 {
		return plan.PriceTable{}, 0, fmt.Errorf("config: %s no define líneas de producto", path)
	}

	table := plan.PriceTable{}
	for name, lp := range pf.Lines {
		if lp.KgBag <= 0 || lp.HalfKgBag <= 0 {
			return plan.PriceTable{}, 0, fmt.Errorf("config: precios inválidos para línea %q", name)
		}
		table[plan.ProteinLine(name)] = lp
	}

	discount := pf.DiscountPerBag
	if discount <= 0 {
		discount = plan.DefaultDiscountPerBag
	}

	return table, discount, nil
}

// DefaultPrices es la lista vigente cuando no hay PRICES_FILE.
func DefaultPrices() plan.PriceTable {
	return plan.PriceTable{
		plan.LinePollo: {KgBag: 80, HalfKgBag: 60},
		plan.LineRes:   {KgBag: 90, HalfKgBag: 70},
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
