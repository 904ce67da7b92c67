package scheduler

import (
	"github.com/partsden/partsden-backend/internal/app/service"
	"github.com/partsden/partsden-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// InventoryScheduler runs a daily low-stock sweep and logs every active
// product at or below its reorder level so purchasing can restock.
type InventoryScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
}

func NewInventoryScheduler(productService service.ProductService) *InventoryScheduler {
	return &InventoryScheduler{
		cron:           cron.New(),
		productService: productService,
	}
}

// Start registers the daily job. "0 6 * * *" runs at 6:00 AM server time,
// before the warehouse opens.
func (s *InventoryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 6 * * *", s.runLowStockReport)
	if err != nil {
		logger.Error("Failed to add cron job for low stock report", err)
		return err
	}

	s.cron.Start()
	logger.Info("Inventory scheduler started (daily at 6:00 AM)", nil)

	return nil
}

func (s *InventoryScheduler) runLowStockReport() {
	logger.Info("Starting scheduled low stock report", nil)

	products, err := s.productService.ListLowStock()
	if err != nil {
		logger.Error("Failed to run low stock report", err)
		return
	}

	for _, product := range products {
		logger.Warn("Product below reorder level", map[string]interface{}{
			"product_id":    product.ID,
			"sku":           product.SKU,
			"title":         product.Title,
			"inventory":     product.Inventory,
			"reorder_level": product.ReorderLevel,
		})
	}

	logger.Info("Low stock report completed", map[string]interface{}{
		"low_stock_count": len(products),
	})
}

// Stop halts the scheduler. Jobs already running are allowed to finish.
func (s *InventoryScheduler) Stop() {
	logger.Info("Stopping inventory scheduler", nil)
	s.cron.Stop()
}
