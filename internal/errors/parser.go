package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database and infrastructure errors to a code and a
// message safe to show to users. context is a short operation label such
// as "create product" used to pick a more specific message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// GORM sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStr, context)
	}

	// Raw PostgreSQL errors that slip past gorm's translation

	// Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr, context)
	}

	// Network errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "sku") || strings.Contains(errLower, "idx_products_sku") {
		return ErrorInfo{
			Code:    ProductSKUExists,
			Message: "A product with this SKU already exists",
		}
	}

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}

	if strings.Contains(errLower, "idx_garage_customer_vehicle") {
		return ErrorInfo{
			Code:    VehicleAlreadyInGarage,
			Message: "This vehicle is already in your garage",
		}
	}

	if strings.Contains(errLower, "idx_fitments_product_vehicle") {
		return ErrorInfo{
			Code:    FitmentAlreadyExists,
			Message: "This product already has a fitment for that vehicle",
		}
	}

	if strings.Contains(errLower, "order_number") || strings.Contains(errLower, "idx_orders_order_number") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Order number collision, please retry",
		}
	}

	if strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This slug is already in use",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Deleting a row that other rows still reference
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "product_id") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "The referenced product does not exist",
		}
	}
	if strings.Contains(errLower, "vehicle_id") {
		return ErrorInfo{
			Code:    VehicleNotFound,
			Message: "The referenced vehicle does not exist",
		}
	}
	if strings.Contains(errLower, "customer_id") {
		return ErrorInfo{
			Code:    CustomerNotFound,
			Message: "The referenced customer does not exist",
		}
	}
	if strings.Contains(errLower, "category_id") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "The referenced category does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record does not exist",
	}
}

func parseNotNullError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	if strings.Contains(errLower, "title") || strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Name is required"}
	}
	if strings.Contains(errLower, "sku") {
		return ErrorInfo{Code: ValidationRequired, Message: "SKU is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") {
		return "Product not found"
	}
	if strings.Contains(contextLower, "vehicle") {
		return "Vehicle not found"
	}
	if strings.Contains(contextLower, "category") {
		return "Category not found"
	}
	if strings.Contains(contextLower, "order") {
		return "Order not found"
	}
	if strings.Contains(contextLower, "cart") {
		return "Cart not found"
	}
	if strings.Contains(contextLower, "address") {
		return "Address not found"
	}
	if strings.Contains(contextLower, "customer") || strings.Contains(contextLower, "user") {
		return "Customer not found"
	}

	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Failed to create the record, please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Failed to update the record, please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Failed to delete the record, please try again later"
	}
	if strings.Contains(contextLower, "checkout") || strings.Contains(contextLower, "order") {
		return "Failed to place the order, please try again later"
	}

	return "An internal error occurred, please try again later"
}
