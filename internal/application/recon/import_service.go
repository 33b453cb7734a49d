package reconapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	"github.com/vendorcat/backend/internal/infrastructure/extract"
)

// ImportService drives a job from submission through staging
type ImportService struct {
	jobs     recon.ImportJobRepository
	rows     recon.StagedRowRepository
	approval recon.ApprovalRepository
	profiles *ProfileService
	catalog  *FieldCatalog
	matcher  *Matcher
	archive  FileArchive
	audit    shared.AuditRecorder
	caps     Caps
	logger   *zap.Logger
}

// NewImportService creates the import service
func NewImportService(
	jobs recon.ImportJobRepository,
	rows recon.StagedRowRepository,
	approval recon.ApprovalRepository,
	profiles *ProfileService,
	catalog *FieldCatalog,
	matcher *Matcher,
	archive FileArchive,
	audit shared.AuditRecorder,
	caps Caps,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		jobs:     jobs,
		rows:     rows,
		approval: approval,
		profiles: profiles,
		catalog:  catalog,
		matcher:  matcher,
		archive:  archive,
		audit:    audit,
		caps:     caps,
		logger:   logger,
	}
}

// Submit creates a job, archives its files and extracts a preview
func (s *ImportService) Submit(ctx context.Context, userID uuid.UUID, req SubmitJobRequest) (*PreviewResponse, error) {
	names := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		names = append(names, f.Name)
	}

	format := req.Format
	if format == "" {
		format = recon.FormatAuto
	}

	job, err := recon.NewImportJob(req.SourceSystem, req.Layout, format, names, userID)
	if err != nil {
		return nil, err
	}
	job.RecordPath = req.RecordPath

	for _, f := range req.Files {
		if err := s.archive.Store(ctx, job.ID, f.Name, f.Data); err != nil {
			return nil, fmt.Errorf("archiving %s: %w", f.Name, err)
		}
	}

	result, err := extract.ExtractAll(req.Files, s.extractOptions(job))
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 && len(result.FileErrors) > 0 {
		return nil, shared.NewDomainError("EXTRACTION_FAILED",
			"No file could be extracted: "+result.FileErrors[0].Error())
	}

	// Auto format resolves to the first file's detected format so the
	// approval gate keys on something concrete.
	if job.Format == recon.FormatAuto && len(req.Files) > 0 {
		job.Format = recon.FileFormat(extract.DetectFormat(req.Files[0].Name, req.Files[0].Data))
	}

	if err := job.MarkPreviewed(len(result.Rows)); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.AuditEntry{
		Actor: userID.String(), Action: "import.submit",
		Subject: "import_job", SubjectID: job.ID.String(),
		Detail: fmt.Sprintf("%d files, %d rows", len(req.Files), len(result.Rows)),
	})
	s.logger.Info("import job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("layout", job.Layout),
		zap.Int("rows", len(result.Rows)))

	return s.buildPreview(job, result), nil
}

func (s *ImportService) extractOptions(job *recon.ImportJob) extract.Options {
	return extract.Options{
		Format:     extract.Format(job.Format),
		RecordPath: job.RecordPath,
		MaxRows:    s.caps.MaxRowsPerJob,
	}
}

func (s *ImportService) buildPreview(job *recon.ImportJob, result *extract.Result) *PreviewResponse {
	fields := buildSourceFields(result)

	previewRows := result.Rows
	truncated := false
	if len(previewRows) > s.caps.PreviewRows {
		previewRows = previewRows[:s.caps.PreviewRows]
		truncated = true
	}
	rows := make([]map[string]string, 0, len(previewRows))
	for _, r := range previewRows {
		rows = append(rows, r.Values)
	}

	fileErrors := make([]FileErrorDTO, 0, len(result.FileErrors))
	for _, fe := range result.FileErrors {
		fileErrors = append(fileErrors, FileErrorDTO{File: fe.File, Code: fe.Code, Message: fe.Err.Error()})
	}

	return &PreviewResponse{
		Job:        NewJobSummary(job),
		Columns:    fields,
		Rows:       rows,
		TotalRows:  len(result.Rows),
		Truncated:  truncated,
		FileErrors: fileErrors,
		Signature:  recon.ComputeSignature(fields),
	}
}

// buildSourceFields derives the observed column descriptors from an
// extraction result, including coarse detected types
func buildSourceFields(result *extract.Result) []recon.SourceField {
	fields := make([]recon.SourceField, 0, len(result.Headers))
	for i, header := range result.Headers {
		values := make([]string, 0, len(result.Rows))
		for _, row := range result.Rows {
			values = append(values, row.Values[header])
		}
		fields = append(fields, recon.SourceField{
			Key:      recon.NormalizeFieldKey(header),
			Label:    header,
			Ordinal:  i,
			Detected: extract.DetectColumnType(values),
		})
	}
	return fields
}

// GetJob returns one job
func (s *ImportService) GetJob(ctx context.Context, id uuid.UUID) (*JobSummary, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := NewJobSummary(job)
	return &summary, nil
}

// ListJobs returns jobs newest first
func (s *ImportService) ListJobs(ctx context.Context, filter shared.Filter) (*shared.Paginated[JobSummary], error) {
	jobs, err := s.jobs.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]JobSummary, 0, len(jobs))
	for i := range jobs {
		summaries = append(summaries, NewJobSummary(&jobs[i]))
	}
	page := shared.NewPaginated(summaries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// reloadExtraction re-reads the job's archived files
func (s *ImportService) reloadExtraction(ctx context.Context, job *recon.ImportJob) (*extract.Result, error) {
	files := make([]extract.File, 0, len(job.FileNames))
	for _, name := range job.FileNames {
		data, err := s.archive.Fetch(ctx, job.ID, name)
		if err != nil {
			return nil, fmt.Errorf("fetching archived file %s: %w", name, err)
		}
		files = append(files, extract.File{Name: name, Data: data})
	}
	return extract.ExtractAll(files, s.extractOptions(job))
}

// GetMappingContext returns the mapping screen data for a job
func (s *ImportService) GetMappingContext(ctx context.Context, jobID, userID uuid.UUID) (*MappingContext, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result, err := s.reloadExtraction(ctx, job)
	if err != nil {
		return nil, err
	}
	fields := buildSourceFields(result)
	signature := recon.ComputeSignature(fields)

	compatible, err := s.profiles.FindCompatible(ctx, job.Layout, signature, job.Format, userID)
	if err != nil {
		return nil, err
	}
	profileDTOs := make([]ProfileSummary, 0, len(compatible))
	for i := range compatible {
		profileDTOs = append(profileDTOs, NewProfileSummary(&compatible[i]))
	}

	targets, err := s.catalog.AllFields(ctx)
	if err != nil {
		return nil, err
	}

	return &MappingContext{
		Job:       NewJobSummary(job),
		Columns:   fields,
		Signature: signature,
		Profiles:  profileDTOs,
		Targets:   targets,
	}, nil
}

// SubmitMapping attaches a mapping profile to a job and runs the approval
// gate. A layout shape never approved before parks the job until an
// administrator decides.
func (s *ImportService) SubmitMapping(ctx context.Context, jobID, userID uuid.UUID, req SubmitMappingRequest) (*MappingResult, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result, err := s.reloadExtraction(ctx, job)
	if err != nil {
		return nil, err
	}
	fields := buildSourceFields(result)
	signature := recon.ComputeSignature(fields)

	profile, err := s.resolveProfile(ctx, job, userID, signature, fields, req)
	if err != nil {
		return nil, err
	}
	if err := s.validateBindings(ctx, profile); err != nil {
		return nil, err
	}

	if err := job.AttachMapping(profile.ID); err != nil {
		return nil, err
	}
	if err := s.profiles.MarkUsed(ctx, profile); err != nil {
		return nil, err
	}

	mapping := &MappingResult{ProfileID: profile.ID}

	gate, err := s.runApprovalGate(ctx, job, profile, signature, userID)
	if err != nil {
		return nil, err
	}
	if gate != nil {
		mapping.PendingApproval = true
		mapping.RequestID = &gate.ID
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.AuditEntry{
		Actor: userID.String(), Action: "import.map",
		Subject: "import_job", SubjectID: job.ID.String(),
		Detail: "profile " + profile.ID.String(),
	})

	mapping.Job = NewJobSummary(job)
	return mapping, nil
}

// resolveProfile picks the referenced profile or builds one from inline
// bindings
func (s *ImportService) resolveProfile(ctx context.Context, job *recon.ImportJob, userID uuid.UUID, signature string, fields []recon.SourceField, req SubmitMappingRequest) (*recon.MappingProfile, error) {
	if req.ProfileID != nil {
		profile, err := s.profiles.Get(ctx, *req.ProfileID, userID)
		if err != nil {
			return nil, err
		}
		if !profile.Matches(job.Layout, signature, job.Format) {
			return nil, shared.NewDomainError("PROFILE_INCOMPATIBLE",
				"The profile does not match this job's layout, columns and format")
		}
		return profile, nil
	}

	if len(req.Bindings) == 0 {
		return nil, shared.NewDomainError("INVALID_MAPPING", "A profile or inline bindings are required")
	}

	name := strings.TrimSpace(req.SaveAs)
	scope := req.SaveScope
	if name == "" {
		// Unsaved mappings still persist, privately, so staging and audit
		// can reference them.
		name = "adhoc " + job.ID.String()[:8]
		scope = recon.ProfileScopeLocal
	}
	if scope == "" {
		scope = recon.ProfileScopeShared
	}

	profile, err := recon.NewMappingProfile(name, job.Layout, job.Format, scope, userID, fields, req.Bindings)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// validateBindings checks every bound target against the field catalog
func (s *ImportService) validateBindings(ctx context.Context, profile *recon.MappingProfile) error {
	for _, binding := range profile.Bindings {
		if binding.TargetKey == "" {
			continue
		}
		area, field, ok := SplitTargetKey(binding.TargetKey)
		if !ok {
			return shared.NewDomainError("INVALID_TARGET",
				"Unknown target field: "+binding.TargetKey)
		}
		targets, err := s.catalog.Fields(ctx, area)
		if err != nil {
			return err
		}
		found := false
		for _, t := range targets {
			if t.Field == field {
				found = true
				break
			}
		}
		if !found {
			return shared.NewDomainError("INVALID_TARGET",
				"Unknown target field: "+binding.TargetKey)
		}
	}
	return nil
}

// runApprovalGate checks whether the job's layout shape is trusted. The
// returned request is non-nil when the job was parked.
func (s *ImportService) runApprovalGate(ctx context.Context, job *recon.ImportJob, profile *recon.MappingProfile, signature string, userID uuid.UUID) (*recon.MappingApprovalRequest, error) {
	existing, err := s.approval.FindByKey(ctx, job.Layout, signature, job.Format)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}

	if existing != nil {
		switch existing.State {
		case recon.ApprovalStateApproved:
			return nil, nil
		case recon.ApprovalStatePending:
			if err := job.EnterApprovalGate(existing.ID); err != nil {
				return nil, err
			}
			return existing, nil
		}
		// Rejected shapes get a fresh request for the new mapping attempt.
	}

	request, err := recon.NewMappingApprovalRequest(job.Layout, signature, job.Format, job.ID, profile.ID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.approval.Save(ctx, request); err != nil {
		return nil, err
	}
	if err := job.EnterApprovalGate(request.ID); err != nil {
		return nil, err
	}
	s.logger.Info("mapping parked for approval",
		zap.String("job_id", job.ID.String()),
		zap.String("request_id", request.ID.String()),
		zap.String("layout", job.Layout))
	return request, nil
}

// Stage extracts, maps, validates and matches every row, writing staged
// rows per area. One bad row never aborts the pass; it stages as an error
// row instead.
func (s *ImportService) Stage(ctx context.Context, jobID, userID uuid.UUID) (*StagingResult, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.IsPendingApproval() {
		return nil, recon.ErrApprovalPending
	}
	if job.Status != recon.JobStatusMapped {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Job cannot be staged from status %s", job.Status))
	}
	if job.MappingProfileID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Job has no mapping profile")
	}

	profile, err := s.profiles.Get(ctx, *job.MappingProfileID, job.SubmittedBy)
	if err != nil {
		return nil, err
	}

	result, err := s.reloadExtraction(ctx, job)
	if err != nil {
		return nil, err
	}

	staged, err := s.stageRows(ctx, job, profile, result)
	if err != nil {
		return nil, err
	}

	// Staging replaces any earlier rows of the job wholesale.
	if err := s.rows.DeleteByJob(ctx, job.ID); err != nil {
		return nil, err
	}
	if err := s.rows.SaveBatch(ctx, staged.rows); err != nil {
		return nil, err
	}

	if err := job.MarkStaged(staged.ready+staged.review, staged.errors); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.AuditEntry{
		Actor: userID.String(), Action: "import.stage",
		Subject: "import_job", SubjectID: job.ID.String(),
		Detail: fmt.Sprintf("%d staged, %d review, %d errors", staged.ready, staged.review, staged.errors),
	})
	s.logger.Info("import job staged",
		zap.String("job_id", job.ID.String()),
		zap.Int("ready", staged.ready),
		zap.Int("review", staged.review),
		zap.Int("errors", staged.errors))

	return &StagingResult{
		Job:         NewJobSummary(job),
		StagedCount: staged.ready + staged.review,
		ReviewCount: staged.review,
		ErrorCount:  staged.errors,
		ByArea:      staged.byArea,
		Errors:      staged.collection.Errors(),
		Truncated:   staged.collection.IsTruncated(),
	}, nil
}

type stagingPass struct {
	rows       []*recon.StagedRow
	ready      int
	review     int
	errors     int
	byArea     map[recon.Area]int
	collection *extract.ErrorCollection
}

// stageRows maps and classifies every extracted row
func (s *ImportService) stageRows(ctx context.Context, job *recon.ImportJob, profile *recon.MappingProfile, result *extract.Result) (*stagingPass, error) {
	pass := &stagingPass{
		byArea:     make(map[recon.Area]int),
		collection: extract.NewErrorCollection(s.caps.MaxResultErrors),
	}

	// One validator per area accumulates errors across the whole pass.
	validators := make(map[recon.Area]*extract.FieldValidator, len(recon.AreaOrder))
	for _, area := range recon.AreaOrder {
		validators[area] = extract.NewFieldValidator(areaRules(area), s.caps.MaxResultErrors)
	}

	// Bindings address normalized keys; raw rows use original headers.
	headerByKey := make(map[string]string, len(result.Headers))
	for _, h := range result.Headers {
		headerByKey[recon.NormalizeFieldKey(h)] = h
	}

	cache := NewLookupCache()

	for _, row := range result.Rows {
		areaValues := make(map[recon.Area]recon.FieldMap)
		for _, binding := range profile.Bindings {
			if binding.TargetKey == "" {
				continue
			}
			area, field, ok := SplitTargetKey(binding.TargetKey)
			if !ok {
				continue
			}
			header, ok := headerByKey[recon.NormalizeFieldKey(binding.SourceKey)]
			if !ok {
				continue
			}
			value := strings.TrimSpace(row.Values[header])
			if value == "" {
				continue
			}
			if areaValues[area] == nil {
				areaValues[area] = make(recon.FieldMap)
			}
			areaValues[area][field] = value
		}

		// The vendor matcher can use same-row contact identity even though
		// contacts stage separately.
		if vendor, ok := areaValues[recon.AreaVendor]; ok {
			if contact, ok := areaValues[recon.AreaVendorContact]; ok {
				if contact["email"] != "" {
					vendor["contact_email"] = contact["email"]
				}
				if contact["phone"] != "" {
					vendor["contact_phone"] = contact["phone"]
				}
			}
		}

		for _, area := range recon.AreaOrder {
			values, ok := areaValues[area]
			if !ok {
				continue
			}

			stagedRow, err := recon.NewStagedRow(job.ID, area, row.SourceFile, row.LineNumber, row.Values, values)
			if err != nil {
				return nil, err
			}

			before := len(validators[area].Errors().Errors())
			if !validators[area].ValidateValues(row.LineNumber, values) {
				stagedRow.MarkError(errorTextSince(validators[area], before))
			} else if match, err := s.matcher.Match(ctx, area, values, cache); err != nil {
				// Lookup failures are row problems, not pass problems.
				stagedRow.MarkError("match lookup failed: " + err.Error())
				pass.collection.Add(extract.NewRowError(row.LineNumber, string(area),
					extract.ErrCodeValidation, "match lookup failed: "+err.Error()))
			} else {
				switch {
				case match == nil:
				case match.Miss:
					stagedRow.MarkError(match.Note)
					pass.collection.Add(extract.NewRowError(row.LineNumber, string(area),
						extract.ErrCodeValidation, match.Note))
				case match.NeedsReview():
					stagedRow.MarkReview(match.Note)
				default:
					stagedRow.MarkMatched(*match.MatchedID, matchNote(match))
				}
				// Update rows inherit their parent from the matched entity;
				// everything else must pin one down now.
				if stagedRow.Status != recon.RowStatusError && stagedRow.Decision != recon.MatchDecisionUpdate {
					s.resolveParent(ctx, stagedRow, area, values, areaValues, cache)
				}
			}

			switch stagedRow.Status {
			case recon.RowStatusError:
				pass.errors++
			case recon.RowStatusReview:
				pass.review++
			default:
				pass.ready++
			}
			pass.rows = append(pass.rows, stagedRow)
			pass.byArea[area]++
		}
	}

	for _, area := range recon.AreaOrder {
		for _, rowErr := range validators[area].Errors().Errors() {
			pass.collection.Add(rowErr)
		}
	}

	return pass, nil
}

// resolveParent pins a child-area row to its canonical parent. A line that
// also stages the parent itself needs nothing here; apply links the two by
// line. Otherwise the row must carry a resolvable parent reference, either
// an explicit id, a name, or a same-line contact identity. A reference no
// rule can resolve is a data error, not an apply-time surprise.
func (s *ImportService) resolveParent(ctx context.Context, stagedRow *recon.StagedRow, area recon.Area, values recon.FieldMap, areaValues map[recon.Area]recon.FieldMap, cache *LookupCache) {
	parent := area.ParentArea()
	if parent == "" {
		return
	}
	if _, sameLine := areaValues[parent]; sameLine {
		return
	}

	ref := make(recon.FieldMap)
	if id := values[string(parent)+"_id"]; id != "" {
		ref["match_id"] = id
	}
	if name := values[string(parent)+"_name"]; name != "" {
		ref[nameFieldFor(parent)] = name
	}
	if parent == recon.AreaVendor {
		if contact, ok := areaValues[recon.AreaVendorContact]; ok {
			if contact["email"] != "" {
				ref["contact_email"] = contact["email"]
			}
			if contact["phone"] != "" {
				ref["contact_phone"] = contact["phone"]
			}
		}
	}
	if len(ref) == 0 {
		stagedRow.MarkError(fmt.Sprintf("no %s reference on this line", parent))
		return
	}

	match, err := s.matcher.Match(ctx, parent, ref, cache)
	if err != nil {
		stagedRow.MarkError(fmt.Sprintf("%s lookup failed: %s", parent, err.Error()))
		return
	}
	switch {
	case match == nil:
		stagedRow.MarkError(fmt.Sprintf("%s reference did not resolve to a known entity", parent))
	case match.Miss:
		stagedRow.MarkError(string(parent) + ": " + match.Note)
	case match.NeedsReview():
		stagedRow.MarkReview(string(parent) + ": " + match.Note)
	default:
		stagedRow.SetParent(*match.MatchedID)
	}
}

func matchNote(match *MatchResult) string {
	if match.Note != "" {
		return match.Note
	}
	return fmt.Sprintf("matched via %s (%s)", match.Strategy, match.Confidence)
}

// errorTextSince summarizes the validator errors added for the current row
func errorTextSince(v *extract.FieldValidator, before int) string {
	errs := v.Errors().Errors()
	if len(errs) <= before {
		return "validation failed"
	}
	parts := make([]string, 0, len(errs)-before)
	for _, e := range errs[before:] {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
