package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Vehicles (VEHICLE_) ====================
	VehicleNotFound       = "VEHICLE_NOT_FOUND"
	VehicleMakeNotFound   = "VEHICLE_MAKE_NOT_FOUND"
	VehicleModelNotFound  = "VEHICLE_MODEL_NOT_FOUND"
	VehicleAlreadyExists  = "VEHICLE_ALREADY_EXISTS"
	VehicleAlreadyInGarage = "VEHICLE_ALREADY_IN_GARAGE"

	// ==================== Catalog (CATALOG_) ====================
	CategoryNotFound     = "CATALOG_CATEGORY_NOT_FOUND"
	CategoryCycle        = "CATALOG_CATEGORY_CYCLE"
	CategoryNotEmpty     = "CATALOG_CATEGORY_NOT_EMPTY"
	ManufacturerNotFound = "CATALOG_MANUFACTURER_NOT_FOUND"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductInactive     = "PRODUCT_INACTIVE"
	ProductSKUExists    = "PRODUCT_SKU_EXISTS"
	ProductSlugExists   = "PRODUCT_SLUG_EXISTS"
	ProductOutOfStock   = "PRODUCT_OUT_OF_STOCK"
	FitmentAlreadyExists = "PRODUCT_FITMENT_EXISTS"
	DocumentNotFound    = "PRODUCT_DOCUMENT_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartNotFound        = "CART_NOT_FOUND"
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"
	CartEmpty           = "CART_EMPTY"
	CartInvalidQuantity = "CART_INVALID_QUANTITY"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	OrderAddressRequired   = "ORDER_ADDRESS_REQUIRED"
	OrderInvalidShipping   = "ORDER_INVALID_SHIPPING"

	// ==================== Customer (CUSTOMER_) ====================
	CustomerNotFound = "CUSTOMER_NOT_FOUND"
	AddressNotFound  = "CUSTOMER_ADDRESS_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
