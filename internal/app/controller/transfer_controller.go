package controller

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	apperrors "github.com/ikkim/clientbook-backend/internal/errors"
	"github.com/ikkim/clientbook-backend/internal/middleware"
	"github.com/ikkim/clientbook-backend/internal/spreadsheet"
)

// TransferController serves the workbook export and import endpoints.
type TransferController struct {
	exportService  service.ExportService
	importService  service.ImportService
	maxUploadBytes int64
}

func NewTransferController(exportService service.ExportService, importService service.ImportService, maxUploadMB int64) *TransferController {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &TransferController{
		exportService:  exportService,
		importService:  importService,
		maxUploadBytes: maxUploadMB << 20,
	}
}

// ImportResponse is the body of a finished import. The errors workbook is
// base64 encoded so the browser can offer it as a download.
type ImportResponse struct {
	Message        string              `json:"message"`
	Stats          service.ImportStats `json:"stats"`
	ErrorsFile     string              `json:"errors_file,omitempty"`
	ErrorsFilename string              `json:"errors_filename,omitempty"`
}

// Export GET /api/export
func (ctrl *TransferController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.exportService.Export(c.Request.Context())
	if err != nil {
		log.Error("Failed to export workbook", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "Failed to export data: "+err.Error())
		return
	}

	log.Info("Workbook sent", map[string]interface{}{
		"filename": result.Filename,
		"bytes":    len(result.Data),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, spreadsheet.ContentType, result.Data)
}

// Import POST /api/import (multipart form, field "file")
func (ctrl *TransferController) Import(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if c.Request.ContentLength > ctrl.maxUploadBytes {
		ctrl.rejectTooLarge(c)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctrl.rejectTooLarge(c)
			return
		}
		apperrors.BadRequest(c, apperrors.UploadMissingFile, "No file uploaded")
		return
	}

	if !service.IsWorkbookFilename(header.Filename) {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, service.ErrUnsupportedFileType.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		apperrors.BadRequest(c, apperrors.UploadUnreadable, service.ErrInvalidWorkbook.Error())
		return
	}
	defer file.Close()

	result, err := ctrl.importService.Import(c.Request.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		case errors.Is(err, service.ErrInvalidWorkbook):
			apperrors.BadRequest(c, apperrors.UploadUnreadable, err.Error())
		default:
			log.Error("Import failed", err, map[string]interface{}{
				"filename": header.Filename,
			})
			apperrors.InternalError(c, "Import failed: "+err.Error())
		}
		return
	}

	resp := ImportResponse{
		Message: "Import completed successfully",
		Stats:   result.Stats,
	}
	if n := len(result.Stats.Errors); n > 0 {
		resp.Message = fmt.Sprintf("Import completed with %d error(s)", n)
	}
	if len(result.ErrorsFile) > 0 {
		resp.ErrorsFile = base64.StdEncoding.EncodeToString(result.ErrorsFile)
		resp.ErrorsFilename = result.ErrorsFilename
	}

	c.JSON(http.StatusOK, resp)
}

func (ctrl *TransferController) rejectTooLarge(c *gin.Context) {
	middleware.GetLoggerFromContext(c).Warn("Upload exceeds size limit", map[string]interface{}{
		"limit_bytes":    ctrl.maxUploadBytes,
		"content_length": c.Request.ContentLength,
	})
	apperrors.RequestTooLarge(c, fmt.Sprintf("File exceeds the %d MB upload limit", ctrl.maxUploadBytes>>20))
}
