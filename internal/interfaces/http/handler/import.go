package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/infrastructure/extract"
	"github.com/vendorcat/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ImportHandler drives an import job from submission through apply
type ImportHandler struct {
	BaseHandler
	imports *reconapp.ImportService
	applier *reconapp.ApplyService
	logger  *zap.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(imports *reconapp.ImportService, applier *reconapp.ApplyService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		imports: imports,
		applier: applier,
		logger:  logger,
	}
}

// Submit accepts a multipart upload and starts a new import job.
// Form fields: source_system, layout, format, record_path, files[].
func (h *ImportHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Expected a multipart form upload")
		return
	}

	req := reconapp.SubmitJobRequest{
		SourceSystem: c.PostForm("source_system"),
		Layout:       c.PostForm("layout"),
		Format:       recon.FileFormat(c.PostForm("format")),
		RecordPath:   c.PostForm("record_path"),
	}
	if req.Format == "" {
		req.Format = recon.FormatAuto
	}

	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			h.BadRequest(c, "Could not read uploaded file: "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.BadRequest(c, "Could not read uploaded file: "+fh.Filename)
			return
		}
		req.Files = append(req.Files, extract.File{Name: fh.Filename, Data: data})
	}

	preview, err := h.imports.Submit(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Import job submitted",
		zap.String("job_id", preview.Job.ID.String()),
		zap.String("layout", preview.Job.Layout),
		zap.Int("rows", preview.TotalRows),
	)
	h.Created(c, preview)
}

// List returns import jobs, filterable by status, layout and source_system
func (h *ImportHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	filter := buildFilter(c, req, "status", "layout", "source_system")
	result, err := h.imports.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns one import job
func (h *ImportHandler) Get(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.imports.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// GetMappingContext returns the observed columns, compatible profiles and
// target catalog for the mapping screen
func (h *ImportHandler) GetMappingContext(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	mc, err := h.imports.GetMappingContext(c.Request.Context(), jobID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mc)
}

// SubmitMapping applies a saved profile or inline bindings to a job
func (h *ImportHandler) SubmitMapping(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req reconapp.SubmitMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid mapping request body")
		return
	}

	result, err := h.imports.SubmitMapping(c.Request.Context(), jobID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Stage materializes the mapped rows into staged rows with match proposals
func (h *ImportHandler) Stage(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.imports.Stage(c.Request.Context(), jobID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Import job staged",
		zap.String("job_id", jobID.String()),
		zap.Int("staged", result.StagedCount),
		zap.Int("errors", result.ErrorCount),
	)
	h.Success(c, result)
}

type applyRequest struct {
	FinalConfirm bool   `json:"final_confirm"`
	Reason       string `json:"reason"`
}

// Apply writes approved rows into the canonical catalog. The caller must
// set final_confirm explicitly. Row-level failures do not abort the pass.
func (h *ImportHandler) Apply(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid apply request body")
		return
	}
	if !req.FinalConfirm {
		h.BadRequest(c, "Apply requires final_confirm to be true")
		return
	}

	result, err := h.applier.Apply(c.Request.Context(), jobID, userID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("Import job applied",
		zap.String("job_id", jobID.String()),
		zap.String("status", string(result.Job.Status)),
		zap.Int("failed", result.Failed),
	)
	h.Success(c, result)
}
