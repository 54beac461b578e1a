package errors

// Error code constants. Format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to its own messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Client (CLIENT_) ====================
	ClientNotFound       = "CLIENT_NOT_FOUND"
	ClientTaxIDExists    = "CLIENT_TAX_ID_EXISTS"
	ClientTaxIDRequired  = "CLIENT_TAX_ID_REQUIRED"
	ClientParentNotFound = "CLIENT_PARENT_NOT_FOUND"

	// ==================== Coverage records (BENEFIT_, COMMERCIAL_) ====================
	BenefitNotFound        = "BENEFIT_NOT_FOUND"
	BenefitInvalidPlanType = "BENEFIT_INVALID_PLAN_TYPE"
	CommercialNotFound     = "COMMERCIAL_NOT_FOUND"
	CommercialInvalidPlan  = "COMMERCIAL_INVALID_PLAN_TYPE"
	PocReassignInvalid     = "BENEFIT_POC_REASSIGN_INVALID"

	// ==================== Feedback (FEEDBACK_) ====================
	FeedbackNotFound        = "FEEDBACK_NOT_FOUND"
	FeedbackSubjectRequired = "FEEDBACK_SUBJECT_REQUIRED"

	// ==================== Upload / workbook (UPLOAD_) ====================
	UploadMissingFile     = "UPLOAD_MISSING_FILE"
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadUnreadable      = "UPLOAD_UNREADABLE_WORKBOOK"
	ExportFailed          = "EXPORT_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
