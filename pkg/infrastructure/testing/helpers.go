package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/infrastructure/repositories/memory"
)

// ScenarioConfig sizes a synthetic retail dataset
type ScenarioConfig struct {
	Suppliers        int
	ItemsPerSupplier int
	Start            time.Time
	Days             int
	// SalesPerDay is the number of transaction lines generated per day
	SalesPerDay int
	Seed        int64
}

var categories = []entities.CategoryPath{
	{Category: "Almacen", Subcategory: "Secos", Level3: "Arroz", Level4: "Largo", Level5: "1kg"},
	{Category: "Almacen", Subcategory: "Secos", Level3: "Fideos", Level4: "Tallarin", Level5: "500g"},
	{Category: "Almacen", Subcategory: "Dulces", Level3: "Azucar", Level4: "Blanca", Level5: "1kg"},
	{Category: "Bebidas", Subcategory: "Gaseosas", Level3: "Cola", Level4: "Retornable", Level5: "2l"},
	{Category: "Limpieza", Subcategory: "Hogar", Level3: "Detergente", Level4: "Liquido", Level5: "750ml"},
}

// BuildRetailScenario generates a deterministic sales history with its item
// and supplier registries. Supplier revenue is skewed so the first suppliers
// dominate, which yields all three ABC classes.
func BuildRetailScenario(cfg ScenarioConfig) (*memory.SalesRepository, *memory.CatalogRepository) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	catalog := memory.NewCatalogRepository(cfg.Suppliers * cfg.ItemsPerSupplier)

	type product struct {
		item     entities.Item
		supplier entities.Supplier
		category entities.CategoryPath
		price    decimal.Decimal
		weight   int
	}

	var products []product
	totalWeight := 0
	for s := 0; s < cfg.Suppliers; s++ {
		supplier := entities.Supplier{
			ID:   entities.SupplierID(fmt.Sprintf("%d", 100+s)),
			Name: fmt.Sprintf("Proveedor %03d", s+1),
		}
		catalog.AddSupplier(supplier)

		for i := 0; i < cfg.ItemsPerSupplier; i++ {
			item := entities.Item{
				Code:        entities.ItemCode(fmt.Sprintf("%d%03d", 100+s, i+1)),
				Description: fmt.Sprintf("Articulo %d-%d", s+1, i+1),
				SupplierID:  supplier.ID,
			}
			catalog.AddItem(item)

			weight := cfg.Suppliers - s
			products = append(products, product{
				item:     item,
				supplier: supplier,
				category: categories[(s+i)%len(categories)],
				price:    decimal.NewFromInt(int64(1000 * (1 + rng.Intn(50)))),
				weight:   weight * weight,
			})
			totalWeight += weight * weight
		}
	}

	sales := memory.NewSalesRepository(cfg.Days * cfg.SalesPerDay)
	if len(products) == 0 {
		return sales, catalog
	}

	records := make([]*entities.SalesRecord, 0, cfg.Days*cfg.SalesPerDay)
	for d := 0; d < cfg.Days; d++ {
		day := entities.Day(cfg.Start).AddDate(0, 0, d)
		for n := 0; n < cfg.SalesPerDay; n++ {
			p := pickWeighted(rng, totalWeight, len(products), func(i int) int { return products[i].weight })
			chosen := products[p]
			qty := decimal.NewFromInt(int64(1 + rng.Intn(5)))

			record, err := entities.NewSalesRecord(
				day,
				chosen.item.Code,
				chosen.supplier.ID,
				chosen.supplier.Name,
				chosen.category,
				chosen.price.Mul(qty),
				qty,
			)
			if err != nil {
				panic(err)
			}
			records = append(records, record)
		}
	}

	if err := sales.LoadSales(records); err != nil {
		panic(err)
	}
	return sales, catalog
}

func pickWeighted(rng *rand.Rand, total, n int, weight func(int) int) int {
	target := rng.Intn(total)
	for i := 0; i < n; i++ {
		target -= weight(i)
		if target < 0 {
			return i
		}
	}
	return n - 1
}
