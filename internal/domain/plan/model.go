package plan

// AgeStage define las etapas de vida que afectan la ración diaria.
// @Enum puppy, adult, senior
type AgeStage string

const (
	StagePuppy  AgeStage = "puppy"
	StageAdult  AgeStage = "adult"
	StageSenior AgeStage = "senior"
)

// ActivityLevel define el nivel de actividad del perro (solo afecta adultos).
// @Enum low, normal, high
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityNormal ActivityLevel = "normal"
	ActivityHigh   ActivityLevel = "high"
)

// ProteinLine es la línea de proteína del producto.
// @Enum pollo, res
type ProteinLine string

const (
	LinePollo ProteinLine = "pollo"
	LineRes   ProteinLine = "res"
)

// PackagingSize es la presentación preferida de empaque.
// @Enum 500g, 1kg
type PackagingSize string

const (
	SizeHalfKg PackagingSize = "500g"
	SizeKg     PackagingSize = "1kg"
)

const (
	gramsHalfKgBag = 500
	gramsKgBag     = 1000
)

// Bag es una línea del desglose de bolsas: presentación + cantidad.
type Bag struct {
	Size     PackagingSize
	Quantity int
}

// Grams devuelve los gramos que aporta la línea (tamaño × cantidad).
func (b Bag) Grams() int {
	return bagGrams(b.Size) * b.Quantity
}

func bagGrams(size PackagingSize) int {
	if size == SizeHalfKg {
		return gramsHalfKgBag
	}
	return gramsKgBag
}

// Request son los datos transitorios para cotizar un plan. No se persiste.
type Request struct {
	DailyGrams   int
	DurationDays int // 7 o 15
	Packaging    PackagingSize
	Protein      ProteinLine
}

// Calculation es el resultado de cotizar un plan.
// TotalGrams son los gramos reales entregados (desde las bolsas),
// que pueden superar lo solicitado pero nunca quedar por debajo.
type Calculation struct {
	TotalKg      float64
	TotalGrams   int
	Bags         []Bag
	TotalBags    int
	PricePerKg   int // efectivo, derivado del subtotal real
	Subtotal     int
	DurationDays int
}

// LinePricing son los precios unitarios por bolsa de una línea de proteína.
type LinePricing struct {
	KgBag     int `yaml:"kg_bag"`
	HalfKgBag int `yaml:"half_kg_bag"`
}

// PriceTable mapea línea de proteína → precios por bolsa.
// Se inyecta en cada cálculo; el paquete no asume precios fijos.
type PriceTable map[ProteinLine]LinePricing

// UnitPrice devuelve el precio unitario de una bolsa según tamaño.
func (t PriceTable) UnitPrice(line ProteinLine, size PackagingSize) int {
	p, ok := t[line]
	if !ok {
		return 0
	}
	if size == SizeHalfKg {
		return p.HalfKgBag
	}
	return p.KgBag
}

// TierType es el nivel de suscripción.
// @Enum basic, pro
type TierType string

const (
	TierBasic TierType = "basic"
	TierPro   TierType = "pro"
)

// Tier es una oferta de descuento recurrente derivada de un precio base.
type Tier struct {
	Type               TierType
	DiscountPercent    int
	PriceAfterDiscount int
}

// TierSet agrupa las dos ofertas que se muestran juntas en el checkout.
type TierSet struct {
	Basic Tier
	Pro   Tier
}
