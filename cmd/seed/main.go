package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/partsden/partsden-backend/config"
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/internal/db"
	"github.com/partsden/partsden-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Catalog importer. Reads an XLSX workbook with two sheets:
//
//	Vehicles: Make | Model | Year | Trim | Engine | BodyType
//	Products: Title | SKU | Category | Manufacturer | UnitPrice | Inventory | PartNumber | OEMPartNumber | ProductType | Universal
//
// Makes, models, categories and manufacturers are created on first
// reference. Rows with a missing required cell are skipped and counted.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	importer := newImporter(f)

	vehicleCount, err := importer.importVehicles()
	if err != nil {
		log.Fatal("Failed to import vehicles:", err)
	}

	productCount, err := importer.importProducts()
	if err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Vehicles imported: %d\n", vehicleCount)
	fmt.Printf("Products imported: %d\n", productCount)
	fmt.Printf("Rows skipped: %d\n", importer.skipped)
}

type importer struct {
	file        *excelize.File
	vehicleRepo repository.VehicleRepository
	catalogRepo repository.CatalogRepository
	productRepo repository.ProductRepository
	skipped     int

	makes         map[string]*model.Make
	models        map[string]*model.VehicleModel
	categories    map[string]*model.Category
	manufacturers map[string]*model.Manufacturer
}

func newImporter(f *excelize.File) *importer {
	return &importer{
		file:          f,
		vehicleRepo:   repository.NewVehicleRepository(db.GetDB()),
		catalogRepo:   repository.NewCatalogRepository(db.GetDB()),
		productRepo:   repository.NewProductRepository(db.GetDB()),
		makes:         make(map[string]*model.Make),
		models:        make(map[string]*model.VehicleModel),
		categories:    make(map[string]*model.Category),
		manufacturers: make(map[string]*model.Manufacturer),
	}
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (imp *importer) importVehicles() (int, error) {
	rows, err := imp.file.GetRows("Vehicles")
	if err != nil {
		return 0, fmt.Errorf("failed to read Vehicles sheet: %w", err)
	}

	var vehicles []model.Vehicle
	seen := make(map[string]bool)

	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		makeName := cell(row, 0)
		modelName := cell(row, 1)
		yearStr := cell(row, 2)
		trim := cell(row, 3)
		engine := cell(row, 4)
		bodyType := cell(row, 5)

		year, err := strconv.Atoi(yearStr)
		if makeName == "" || modelName == "" || err != nil || year < 1900 {
			imp.skipped++
			continue
		}

		key := fmt.Sprintf("%s|%s|%d|%s", makeName, modelName, year, trim)
		if seen[key] {
			imp.skipped++
			continue
		}
		seen[key] = true

		vehicleModel, err := imp.modelFor(makeName, modelName)
		if err != nil {
			return 0, err
		}

		vehicles = append(vehicles, model.Vehicle{
			ModelID:  vehicleModel.ID,
			Year:     year,
			Trim:     trim,
			Engine:   engine,
			BodyType: bodyType,
		})
	}

	if len(vehicles) == 0 {
		return 0, nil
	}
	if err := imp.vehicleRepo.BulkCreateVehicles(vehicles, 500); err != nil {
		return 0, err
	}
	return len(vehicles), nil
}

func (imp *importer) importProducts() (int, error) {
	rows, err := imp.file.GetRows("Products")
	if err != nil {
		return 0, fmt.Errorf("failed to read Products sheet: %w", err)
	}

	var products []model.Product
	seenSKU := make(map[string]bool)

	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		title := cell(row, 0)
		sku := cell(row, 1)
		categoryName := cell(row, 2)
		manufacturerName := cell(row, 3)
		priceStr := cell(row, 4)
		inventoryStr := cell(row, 5)
		partNumber := cell(row, 6)
		oemPartNumber := cell(row, 7)
		productType := cell(row, 8)
		universal := strings.EqualFold(cell(row, 9), "yes")

		price, priceErr := strconv.ParseFloat(priceStr, 64)
		if title == "" || sku == "" || categoryName == "" || priceErr != nil || price <= 0 {
			imp.skipped++
			continue
		}
		if seenSKU[sku] {
			imp.skipped++
			continue
		}
		seenSKU[sku] = true

		inventory, err := strconv.Atoi(inventoryStr)
		if err != nil || inventory < 0 {
			inventory = 0
		}

		category, err := imp.categoryFor(categoryName)
		if err != nil {
			return 0, err
		}

		var manufacturerID *uint
		if manufacturerName != "" {
			manufacturer, err := imp.manufacturerFor(manufacturerName)
			if err != nil {
				return 0, err
			}
			manufacturerID = &manufacturer.ID
		}

		pt := model.ProductType(strings.ToLower(productType))
		switch pt {
		case model.ProductTypeOEM, model.ProductTypeAftermarket, model.ProductTypePerformance, model.ProductTypeUniversal:
		default:
			pt = model.ProductTypeAftermarket
		}
		if pt == model.ProductTypeUniversal {
			universal = true
		}

		products = append(products, model.Product{
			Title:          title,
			Slug:           util.Slugify(title + "-" + sku),
			SKU:            sku,
			UnitPrice:      price,
			Inventory:      inventory,
			ReorderLevel:   10,
			CategoryID:     category.ID,
			ManufacturerID: manufacturerID,
			PartNumber:     partNumber,
			OEMPartNumber:  oemPartNumber,
			ProductType:    pt,
			IsUniversal:    universal,
			WarrantyMonths: 12,
			IsActive:       true,
		})
	}

	if len(products) == 0 {
		return 0, nil
	}
	if err := imp.productRepo.BulkCreate(products, 500); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (imp *importer) makeFor(name string) (*model.Make, error) {
	if m, ok := imp.makes[name]; ok {
		return m, nil
	}

	m := &model.Make{Name: name, Slug: util.Slugify(name)}
	if existing, err := imp.vehicleRepo.FindMakeBySlug(m.Slug); err == nil {
		imp.makes[name] = existing
		return existing, nil
	}
	if err := imp.vehicleRepo.CreateMake(m); err != nil {
		return nil, err
	}
	imp.makes[name] = m
	return m, nil
}

func (imp *importer) modelFor(makeName, modelName string) (*model.VehicleModel, error) {
	key := makeName + "|" + modelName
	if m, ok := imp.models[key]; ok {
		return m, nil
	}

	mk, err := imp.makeFor(makeName)
	if err != nil {
		return nil, err
	}

	existing, err := imp.vehicleRepo.FindModelsByMakeID(mk.ID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Name == modelName {
			imp.models[key] = &existing[i]
			return &existing[i], nil
		}
	}

	m := &model.VehicleModel{MakeID: mk.ID, Name: modelName, Slug: util.Slugify(modelName)}
	if err := imp.vehicleRepo.CreateModel(m); err != nil {
		return nil, err
	}
	imp.models[key] = m
	return m, nil
}

func (imp *importer) categoryFor(name string) (*model.Category, error) {
	if c, ok := imp.categories[name]; ok {
		return c, nil
	}

	c := &model.Category{Name: name, Slug: util.Slugify(name)}
	if existing, err := imp.catalogRepo.FindCategoryBySlug(c.Slug); err == nil {
		imp.categories[name] = existing
		return existing, nil
	}
	if err := imp.catalogRepo.CreateCategory(c); err != nil {
		return nil, err
	}
	imp.categories[name] = c
	return c, nil
}

func (imp *importer) manufacturerFor(name string) (*model.Manufacturer, error) {
	if m, ok := imp.manufacturers[name]; ok {
		return m, nil
	}

	m := &model.Manufacturer{Name: name, Slug: util.Slugify(name)}
	if existing, err := imp.catalogRepo.FindManufacturerBySlug(m.Slug); err == nil {
		imp.manufacturers[name] = existing
		return existing, nil
	}
	if err := imp.catalogRepo.CreateManufacturer(m); err != nil {
		return nil, err
	}
	imp.manufacturers[name] = m
	return m, nil
}
