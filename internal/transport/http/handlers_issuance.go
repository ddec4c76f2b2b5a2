package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"verifyhr/internal/credential"
	"verifyhr/internal/identity"
	"verifyhr/internal/issuance"
	"verifyhr/internal/platform/middleware"
	"verifyhr/internal/transport/http/shared"
	dErrors "verifyhr/pkg/domain-errors"
)

// IssuanceService defines the issuance operations the handler needs.
type IssuanceService interface {
	CreatePassport(ctx context.Context, attrs identity.Attributes) (*issuance.PassportResult, error)
	IssueEmployment(ctx context.Context, in credential.EmploymentInput) (*issuance.CredentialResult, error)
	IssueEducation(ctx context.Context, in credential.EducationInput) (*issuance.CredentialResult, error)
	AppendEmployment(ctx context.Context, assetID uint64, in credential.EmploymentInput) (*issuance.AppendResult, error)
	AppendEducation(ctx context.Context, assetID uint64, in credential.EducationInput) (*issuance.AppendResult, error)
}

// IssuanceHandler handles the issuer-facing write endpoints.
type IssuanceHandler struct {
	service      IssuanceService
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// NewIssuanceHandler creates the issuance handler.
func NewIssuanceHandler(service IssuanceService, logger *slog.Logger, jwtValidator middleware.JWTValidator) *IssuanceHandler {
	return &IssuanceHandler{
		service:      service,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register registers the issuance routes. All of them mutate ledger state and
// require an issuer token.
func (h *IssuanceHandler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		g.Post("/passport", h.handleCreatePassport)
		g.Post("/credentials/issue", h.handleIssueCredential)
		g.Post("/passport/{assetID}/credentials", h.handleAppendCredential)
	})
}

type createPassportRequest struct {
	FullName       string `json:"fullName"`
	DateOfBirth    string `json:"dateOfBirth"`
	DocumentNumber string `json:"documentNumber"`
}

func (h *IssuanceHandler) handleCreatePassport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createPassportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "dateOfBirth must be YYYY-MM-DD"))
		return
	}

	res, err := h.service.CreatePassport(ctx, identity.Attributes{
		FullName:       req.FullName,
		DateOfBirth:    dob,
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create passport failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, res)
}

// credentialRequest carries both variants; Type selects which fields apply.
type credentialRequest struct {
	Type credential.Type `json:"type"`

	EmployeeName string `json:"employeeName,omitempty"`
	EmployeeID   string `json:"employeeId,omitempty"`
	Company      string `json:"company,omitempty"`
	Role         string `json:"role,omitempty"`

	StudentName string `json:"studentName,omitempty"`
	StudentID   string `json:"studentId,omitempty"`
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Major       string `json:"major,omitempty"`

	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
	ProofURL    string `json:"credentialProof,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (c *credentialRequest) employment() credential.EmploymentInput {
	return credential.EmploymentInput{
		EmployeeName: c.EmployeeName,
		EmployeeID:   c.EmployeeID,
		Company:      c.Company,
		Role:         c.Role,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		ReferenceID:  c.ReferenceID,
		ProofURL:     c.ProofURL,
		Notes:        c.Notes,
		Image:        c.Image,
	}
}

func (c *credentialRequest) education() credential.EducationInput {
	return credential.EducationInput{
		StudentName: c.StudentName,
		StudentID:   c.StudentID,
		Institution: c.Institution,
		Degree:      c.Degree,
		Major:       c.Major,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		ReferenceID: c.ReferenceID,
		ProofURL:    c.ProofURL,
		Notes:       c.Notes,
		Image:       c.Image,
	}
}

func (h *IssuanceHandler) handleIssueCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	var (
		res *issuance.CredentialResult
		err error
	)
	switch req.Type {
	case credential.TypeEmployment:
		res, err = h.service.IssueEmployment(ctx, req.employment())
	case credential.TypeEducation:
		res, err = h.service.IssueEducation(ctx, req.education())
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "type must be employment or education"))
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "issue credential failed",
			"request_id", middleware.GetRequestID(ctx),
			"type", string(req.Type),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, res)
}

func (h *IssuanceHandler) handleAppendCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assetID, err := strconv.ParseUint(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "asset id must be numeric"))
		return
	}

	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	var res *issuance.AppendResult
	switch req.Type {
	case credential.TypeEmployment:
		res, err = h.service.AppendEmployment(ctx, assetID, req.employment())
	case credential.TypeEducation:
		res, err = h.service.AppendEducation(ctx, assetID, req.education())
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "type must be employment or education"))
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "append credential failed",
			"request_id", middleware.GetRequestID(ctx),
			"asset_id", assetID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, res)
}
