package reconapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	"github.com/vendorcat/backend/internal/infrastructure/extract"
)

// ApplyService writes staged rows into the canonical catalog. Areas apply
// in the fixed dependency order so parents exist before their children.
// One failing row never aborts the pass; it is annotated and left in place
// for a later re-apply.
type ApplyService struct {
	jobs      recon.ImportJobRepository
	rows      recon.StagedRowRepository
	vendors   catalog.VendorRepository
	offerings catalog.OfferingRepository
	contracts catalog.ContractRepository
	projects  catalog.ProjectRepository
	invoices  catalog.InvoiceRepository
	payments  catalog.PaymentRepository
	audit     shared.AuditRecorder
	caps      Caps
	logger    *zap.Logger
}

// NewApplyService creates the apply service
func NewApplyService(
	jobs recon.ImportJobRepository,
	rows recon.StagedRowRepository,
	vendors catalog.VendorRepository,
	offerings catalog.OfferingRepository,
	contracts catalog.ContractRepository,
	projects catalog.ProjectRepository,
	invoices catalog.InvoiceRepository,
	payments catalog.PaymentRepository,
	audit shared.AuditRecorder,
	caps Caps,
	logger *zap.Logger,
) *ApplyService {
	return &ApplyService{
		jobs:      jobs,
		rows:      rows,
		vendors:   vendors,
		offerings: offerings,
		contracts: contracts,
		projects:  projects,
		invoices:  invoices,
		payments:  payments,
		audit:     audit,
		caps:      caps,
		logger:    logger,
	}
}

// applyPass carries per-line entity linkage across areas: children find
// their parents through the source row they came from.
type applyPass struct {
	byLine map[recon.Area]map[string]uuid.UUID
	errors *extract.ErrorCollection
}

func lineKey(row *recon.StagedRow) string {
	return fmt.Sprintf("%s#%d", row.SourceFile, row.SourceLine)
}

func (p *applyPass) register(area recon.Area, row *recon.StagedRow, id uuid.UUID) {
	if p.byLine[area] == nil {
		p.byLine[area] = make(map[string]uuid.UUID)
	}
	p.byLine[area][lineKey(row)] = id
}

func (p *applyPass) resolve(area recon.Area, row *recon.StagedRow) (uuid.UUID, bool) {
	id, ok := p.byLine[area][lineKey(row)]
	return id, ok
}

// Apply runs one apply pass over every area of a job. Re-applying a
// terminal job re-attempts every eligible row; a create from an earlier
// pass writes back to the entity it created rather than minting a new
// one, so the repository layer decides what is a duplicate. The reason
// string is recorded in the audit trail alongside the outcome.
func (s *ApplyService) Apply(ctx context.Context, jobID, userID uuid.UUID, reason string) (*ApplyResult, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.IsPendingApproval() {
		return nil, recon.ErrApprovalPending
	}
	if job.Status != recon.JobStatusApprovedForApply && !job.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Job cannot be applied from status %s", job.Status))
	}

	pass := &applyPass{
		byLine: make(map[recon.Area]map[string]uuid.UUID),
		errors: extract.NewErrorCollection(s.caps.MaxResultErrors),
	}

	result := &ApplyResult{Areas: make([]AreaApplyResult, 0, len(recon.AreaOrder))}
	totalFailed := 0

	for _, area := range recon.AreaOrder {
		areaResult := AreaApplyResult{Area: area}

		rows, err := s.rows.FindEligible(ctx, jobID, area)
		if err != nil {
			return nil, err
		}

		for i := range rows {
			row := &rows[i]

			id, outcome, rowErr := s.applyRow(ctx, pass, area, row)
			if rowErr != nil {
				row.RecordFailed(rowErr.Error())
				pass.errors.Add(extract.NewRowError(row.SourceLine, string(area),
					extract.ErrCodeValidation, rowErr.Error()))
				areaResult.Failed++
				totalFailed++
			} else {
				row.RecordApplied(outcome, id)
				pass.register(area, row, id)
				switch outcome {
				case recon.ApplyOutcomeCreated:
					areaResult.Created++
				case recon.ApplyOutcomeUpdated:
					areaResult.Updated++
				}
			}

			if err := s.rows.Save(ctx, row); err != nil {
				return nil, fmt.Errorf("saving row outcome: %w", err)
			}
		}

		result.Areas = append(result.Areas, areaResult)
	}

	if err := job.CompleteApply(totalFailed); err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("%d failed", totalFailed)
	if reason != "" {
		detail = detail + "; reason: " + reason
	}
	s.audit.Record(ctx, shared.AuditEntry{
		Actor: userID.String(), Action: "import.apply",
		Subject: "import_job", SubjectID: job.ID.String(),
		Detail: detail,
	})
	s.logger.Info("import job applied",
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(job.Status)),
		zap.Int("failed", totalFailed))

	result.Job = NewJobSummary(job)
	result.Failed = totalFailed
	result.Errors = pass.errors.Errors()
	result.Truncated = pass.errors.IsTruncated()
	return result, nil
}

// applyRow writes one staged row into the canonical catalog
func (s *ApplyService) applyRow(ctx context.Context, pass *applyPass, area recon.Area, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	switch area {
	case recon.AreaVendor:
		return s.applyVendor(ctx, row)
	case recon.AreaVendorIdentifier:
		return s.applyVendorIdentifier(ctx, pass, row)
	case recon.AreaVendorOwner:
		return s.applyVendorOwner(ctx, pass, row)
	case recon.AreaVendorContact:
		return s.applyVendorContact(ctx, pass, row)
	case recon.AreaOffering:
		return s.applyOffering(ctx, pass, row)
	case recon.AreaOfferingOwner:
		return s.applyOfferingOwner(ctx, pass, row)
	case recon.AreaOfferingContact:
		return s.applyOfferingContact(ctx, pass, row)
	case recon.AreaContract:
		return s.applyContract(ctx, pass, row)
	case recon.AreaProject:
		return s.applyProject(ctx, row)
	case recon.AreaInvoice:
		return s.applyInvoice(ctx, pass, row)
	case recon.AreaPayment:
		return s.applyPayment(ctx, pass, row)
	}
	return uuid.Nil, recon.ApplyOutcomeNone, fmt.Errorf("unknown area: %s", area)
}

// parentID resolves a child row's parent entity, preferring an entity
// applied from the same source line over the parent pinned at staging
func (s *ApplyService) parentID(pass *applyPass, parent recon.Area, row *recon.StagedRow) (uuid.UUID, error) {
	if id, ok := pass.resolve(parent, row); ok {
		return id, nil
	}
	if row.ParentID != nil {
		return *row.ParentID, nil
	}
	return uuid.Nil, fmt.Errorf("no %s resolved for this source row", parent)
}

// reclaimID makes a re-applied create idempotent: the row writes back to
// the entity it created in an earlier pass instead of minting a new one
func reclaimID(row *recon.StagedRow, entity *shared.BaseEntity) {
	if row.AppliedID != nil {
		entity.ID = *row.AppliedID
	}
}

func (s *ApplyService) applyVendor(ctx context.Context, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	values := row.Mapped

	if row.Decision == recon.MatchDecisionUpdate {
		vendor, err := s.vendors.FindByID(ctx, *row.MatchedID)
		if err == shared.ErrNotFound {
			return uuid.Nil, recon.ApplyOutcomeNone, fmt.Errorf("vendor was deleted after staging")
		}
		if err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if err := vendor.Update(values["legal_name"], values["display_name"], values["owner_org"]); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		applyVendorExtras(vendor, values)
		if err := s.vendors.Save(ctx, vendor); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		return vendor.ID, recon.ApplyOutcomeUpdated, nil
	}

	vendor, err := catalog.NewVendor(values["legal_name"], values["display_name"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &vendor.BaseEntity)
	vendor.OwnerOrg = strings.TrimSpace(values["owner_org"])
	applyVendorExtras(vendor, values)
	if err := s.vendors.Save(ctx, vendor); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return vendor.ID, recon.ApplyOutcomeCreated, nil
}

func applyVendorExtras(vendor *catalog.Vendor, values recon.FieldMap) {
	if v := values["status"]; v != "" {
		vendor.Status = catalog.VendorStatus(strings.ToLower(v))
	}
	if v := values["website"]; v != "" {
		vendor.Website = v
	}
	if v := values["notes"]; v != "" {
		vendor.Notes = v
	}
}

func (s *ApplyService) applyVendorIdentifier(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	vendorID, err := s.parentID(pass, recon.AreaVendor, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	ident, err := catalog.NewVendorIdentifier(vendorID, row.Mapped["system"], row.Mapped["value"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &ident.BaseEntity)
	if err := s.vendors.SaveIdentifier(ctx, ident); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return ident.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) applyVendorOwner(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	vendorID, err := s.parentID(pass, recon.AreaVendor, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	owner, err := catalog.NewVendorOwner(vendorID, row.Mapped["owner_org"], row.Mapped["role"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &owner.BaseEntity)
	if err := s.vendors.SaveOwner(ctx, owner); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return owner.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) applyVendorContact(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	vendorID, err := s.parentID(pass, recon.AreaVendor, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	contact, err := catalog.NewVendorContact(vendorID,
		row.Mapped["name"], row.Mapped["email"], row.Mapped["phone"], row.Mapped["kind"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &contact.BaseEntity)
	if err := s.vendors.SaveContact(ctx, contact); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return contact.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) applyOffering(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	values := row.Mapped

	if row.Decision == recon.MatchDecisionUpdate {
		offering, err := s.offerings.FindByID(ctx, *row.MatchedID)
		if err == shared.ErrNotFound {
			return uuid.Nil, recon.ApplyOutcomeNone, fmt.Errorf("offering was deleted after staging")
		}
		if err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if err := offering.Update(values["name"], values["category"]); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if v := values["status"]; v != "" {
			offering.Status = catalog.OfferingStatus(strings.ToLower(v))
		}
		if err := s.offerings.Save(ctx, offering); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		return offering.ID, recon.ApplyOutcomeUpdated, nil
	}

	vendorID, err := s.parentID(pass, recon.AreaVendor, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	offering, err := catalog.NewOffering(vendorID, values["name"], values["category"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &offering.BaseEntity)
	if v := values["status"]; v != "" {
		offering.Status = catalog.OfferingStatus(strings.ToLower(v))
	}
	if err := s.offerings.Save(ctx, offering); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return offering.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) applyOfferingOwner(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	offeringID, err := s.parentID(pass, recon.AreaOffering, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	owner, err := catalog.NewOfferingOwner(offeringID, row.Mapped["owner_org"], row.Mapped["role"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &owner.BaseEntity)
	if err := s.offerings.SaveOwner(ctx, owner); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return owner.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) applyOfferingContact(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	offeringID, err := s.parentID(pass, recon.AreaOffering, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	contact, err := catalog.NewOfferingContact(offeringID,
		row.Mapped["name"], row.Mapped["email"], row.Mapped["phone"], row.Mapped["kind"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &contact.BaseEntity)
	if err := s.offerings.SaveContact(ctx, contact); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return contact.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) applyContract(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	values := row.Mapped

	if row.Decision == recon.MatchDecisionUpdate {
		contract, err := s.contracts.FindByID(ctx, *row.MatchedID)
		if err == shared.ErrNotFound {
			return uuid.Nil, recon.ApplyOutcomeNone, fmt.Errorf("contract was deleted after staging")
		}
		if err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if v := strings.TrimSpace(values["value"]); v != "" {
			value, err := parseOptionalDecimal(v)
			if err != nil {
				return uuid.Nil, recon.ApplyOutcomeNone, err
			}
			contract.Value = value
		}
		if err := s.fillContract(contract, values, pass, row); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if err := s.contracts.Save(ctx, contract); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		return contract.ID, recon.ApplyOutcomeUpdated, nil
	}

	vendorID, err := s.parentID(pass, recon.AreaVendor, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	value, err := parseOptionalDecimal(values["value"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	contract, err := catalog.NewContract(vendorID, values["number"], value)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &contract.BaseEntity)
	if err := s.fillContract(contract, values, pass, row); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	if err := s.contracts.Save(ctx, contract); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return contract.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) fillContract(contract *catalog.Contract, values recon.FieldMap, pass *applyPass, row *recon.StagedRow) error {
	start, err := parseOptionalDate(values["start_date"])
	if err != nil {
		return err
	}
	end, err := parseOptionalDate(values["end_date"])
	if err != nil {
		return err
	}
	if start != nil || end != nil {
		if err := contract.SetPeriod(start, end); err != nil {
			return err
		}
	}
	if v := values["currency"]; v != "" {
		contract.Currency = strings.ToUpper(v)
	}
	if offeringID, ok := pass.resolve(recon.AreaOffering, row); ok {
		contract.SetOffering(offeringID)
	}
	return nil
}

func (s *ApplyService) applyProject(ctx context.Context, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	values := row.Mapped

	if row.Decision == recon.MatchDecisionUpdate {
		project, err := s.projects.FindByID(ctx, *row.MatchedID)
		if err == shared.ErrNotFound {
			return uuid.Nil, recon.ApplyOutcomeNone, fmt.Errorf("project was deleted after staging")
		}
		if err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if err := project.Update(values["name"], values["owner_org"]); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if v := values["status"]; v != "" {
			project.Status = catalog.ProjectStatus(strings.ToLower(v))
		}
		if err := s.projects.Save(ctx, project); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		return project.ID, recon.ApplyOutcomeUpdated, nil
	}

	project, err := catalog.NewProject(values["name"], values["code"], values["owner_org"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &project.BaseEntity)
	if v := values["status"]; v != "" {
		project.Status = catalog.ProjectStatus(strings.ToLower(v))
	}
	if err := s.projects.Save(ctx, project); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return project.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) applyInvoice(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	values := row.Mapped

	if row.Decision == recon.MatchDecisionUpdate {
		invoice, err := s.invoices.FindByID(ctx, *row.MatchedID)
		if err == shared.ErrNotFound {
			return uuid.Nil, recon.ApplyOutcomeNone, fmt.Errorf("invoice was deleted after staging")
		}
		if err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if v := strings.TrimSpace(values["amount"]); v != "" {
			amount, err := parseOptionalDecimal(v)
			if err != nil {
				return uuid.Nil, recon.ApplyOutcomeNone, err
			}
			invoice.Amount = amount
		}
		if err := s.fillInvoice(invoice, values, pass, row); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if err := s.invoices.Save(ctx, invoice); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		return invoice.ID, recon.ApplyOutcomeUpdated, nil
	}

	vendorID, err := s.parentID(pass, recon.AreaVendor, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	amount, err := parseOptionalDecimal(values["amount"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	invoice, err := catalog.NewInvoice(vendorID, values["number"], amount)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &invoice.BaseEntity)
	if err := s.fillInvoice(invoice, values, pass, row); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return invoice.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) fillInvoice(invoice *catalog.Invoice, values recon.FieldMap, pass *applyPass, row *recon.StagedRow) error {
	issued, err := parseOptionalDate(values["issued_at"])
	if err != nil {
		return err
	}
	if issued != nil {
		invoice.IssuedAt = issued
	}
	if v := values["currency"]; v != "" {
		invoice.Currency = strings.ToUpper(v)
	}
	if contractID, ok := pass.resolve(recon.AreaContract, row); ok {
		invoice.ContractID = &contractID
	}
	if projectID, ok := pass.resolve(recon.AreaProject, row); ok {
		invoice.ProjectID = &projectID
	}
	return nil
}

func (s *ApplyService) applyPayment(ctx context.Context, pass *applyPass, row *recon.StagedRow) (uuid.UUID, recon.ApplyOutcome, error) {
	values := row.Mapped

	if row.Decision == recon.MatchDecisionUpdate {
		payment, err := s.payments.FindByID(ctx, *row.MatchedID)
		if err == shared.ErrNotFound {
			return uuid.Nil, recon.ApplyOutcomeNone, fmt.Errorf("payment was deleted after staging")
		}
		if err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if err := s.fillPayment(payment, values, pass, row); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		if err := s.payments.Save(ctx, payment); err != nil {
			return uuid.Nil, recon.ApplyOutcomeNone, err
		}
		return payment.ID, recon.ApplyOutcomeUpdated, nil
	}

	vendorID, err := s.parentID(pass, recon.AreaVendor, row)
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	amount, err := parseOptionalDecimal(values["amount"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	payment, err := catalog.NewPayment(vendorID, amount, values["method"], values["reference"])
	if err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	reclaimID(row, &payment.BaseEntity)
	if err := s.fillPayment(payment, values, pass, row); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return uuid.Nil, recon.ApplyOutcomeNone, err
	}
	return payment.ID, recon.ApplyOutcomeCreated, nil
}

func (s *ApplyService) fillPayment(payment *catalog.Payment, values recon.FieldMap, pass *applyPass, row *recon.StagedRow) error {
	paidAt, err := parseOptionalDate(values["paid_at"])
	if err != nil {
		return err
	}
	if paidAt != nil {
		payment.PaidAt = paidAt
	}
	if v := values["currency"]; v != "" {
		payment.Currency = strings.ToUpper(v)
	}
	if invoiceID, ok := pass.resolve(recon.AreaInvoice, row); ok {
		payment.SetInvoice(invoiceID)
	}
	return nil
}

func parseOptionalDecimal(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %s", value)
	}
	return d, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := extract.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
