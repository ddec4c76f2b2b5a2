package credential

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	dErrors "verifyhr/pkg/domain-errors"
)

// Canonical field order is fixed by the struct definitions below, not by
// input order: encoding/json serializes struct fields in declaration order,
// which keeps the byte form stable across process restarts.
//
// The content hash is computed over these exact bytes, and the bytes never
// embed the hash itself; the commitment lives only in the anchor record. That
// keeps hash verification independent of schema recognition downstream.

type canonicalEmployment struct {
	CredentialID string `json:"credential_id"`
	Type         Type   `json:"type"`
	Status       Status `json:"status"`
	IssueDate    string `json:"issue_date"`
	EmployeeName string `json:"employeeName"`
	EmployeeID   string `json:"employeeId"`
	Company      string `json:"company"`
	Role         string `json:"role"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	ReferenceID  string `json:"referenceId,omitempty"`
	ProofURL     string `json:"credentialProof,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Image        string `json:"image,omitempty"`
}

type canonicalEducation struct {
	CredentialID string `json:"credential_id"`
	Type         Type   `json:"type"`
	Status       Status `json:"status"`
	IssueDate    string `json:"issue_date"`
	StudentName  string `json:"studentName"`
	StudentID    string `json:"studentId"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	Major        string `json:"major"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	ReferenceID  string `json:"referenceId,omitempty"`
	ProofURL     string `json:"credentialProof,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Image        string `json:"image,omitempty"`
}

// Canonicalize serializes the record into its canonical byte form and returns
// the bytes together with the lowercase hex SHA-256 content hash.
//
// Deterministic: re-canonicalizing the same logical record always yields the
// same hash, which is what makes verification round-trips possible.
func Canonicalize(record Record) ([]byte, string, error) {
	if record == nil {
		return nil, "", dErrors.New(dErrors.CodeValidation, "credential record is required")
	}

	var doc any
	switch r := record.(type) {
	case *Employment:
		doc = canonicalEmployment{
			CredentialID: r.meta.ID,
			Type:         r.meta.Type,
			Status:       r.meta.Status,
			IssueDate:    r.meta.IssueDate,
			EmployeeName: r.EmployeeName,
			EmployeeID:   r.EmployeeID,
			Company:      r.Company,
			Role:         r.Role,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			ReferenceID:  r.ReferenceID,
			ProofURL:     r.ProofURL,
			Notes:        r.Notes,
			Image:        r.Image,
		}
	case *Education:
		doc = canonicalEducation{
			CredentialID: r.meta.ID,
			Type:         r.meta.Type,
			Status:       r.meta.Status,
			IssueDate:    r.meta.IssueDate,
			StudentName:  r.StudentName,
			StudentID:    r.StudentID,
			Institution:  r.Institution,
			Degree:       r.Degree,
			Major:        r.Major,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			ReferenceID:  r.ReferenceID,
			ProofURL:     r.ProofURL,
			Notes:        r.Notes,
			Image:        r.Image,
		}
	default:
		return nil, "", dErrors.New(dErrors.CodeValidation, "unknown credential variant")
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "canonicalize credential")
	}

	return b, HashBytes(b), nil
}

// HashBytes returns the lowercase hex SHA-256 digest of b. Verification uses
// the same primitive over fetched bytes.
func HashBytes(b []byte) string {
	digest := sha256.Sum256(b)
	return hex.EncodeToString(digest[:])
}

// MarshalJSON renders the canonical form, so credentials serialize
// identically everywhere: canonical hashing, index storage, API responses.
func (e *Employment) MarshalJSON() ([]byte, error) {
	b, _, err := Canonicalize(e)
	return b, err
}

// UnmarshalJSON reads the canonical form.
func (e *Employment) UnmarshalJSON(b []byte) error {
	var doc canonicalEmployment
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*e = Employment{
		meta:         Meta{ID: doc.CredentialID, Type: doc.Type, Status: doc.Status, IssueDate: doc.IssueDate},
		EmployeeName: doc.EmployeeName,
		EmployeeID:   doc.EmployeeID,
		Company:      doc.Company,
		Role:         doc.Role,
		StartDate:    doc.StartDate,
		EndDate:      doc.EndDate,
		ReferenceID:  doc.ReferenceID,
		ProofURL:     doc.ProofURL,
		Notes:        doc.Notes,
		Image:        doc.Image,
	}
	return nil
}

// MarshalJSON renders the canonical form.
func (e *Education) MarshalJSON() ([]byte, error) {
	b, _, err := Canonicalize(e)
	return b, err
}

// UnmarshalJSON reads the canonical form.
func (e *Education) UnmarshalJSON(b []byte) error {
	var doc canonicalEducation
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*e = Education{
		meta:        Meta{ID: doc.CredentialID, Type: doc.Type, Status: doc.Status, IssueDate: doc.IssueDate},
		StudentName: doc.StudentName,
		StudentID:   doc.StudentID,
		Institution: doc.Institution,
		Degree:      doc.Degree,
		Major:       doc.Major,
		StartDate:   doc.StartDate,
		EndDate:     doc.EndDate,
		ReferenceID: doc.ReferenceID,
		ProofURL:    doc.ProofURL,
		Notes:       doc.Notes,
		Image:       doc.Image,
	}
	return nil
}

// Parse reads canonical bytes back into a typed Record. Unknown type tags
// return a validation error; callers that only need integrity (hash compare)
// do not need Parse to succeed.
func Parse(b []byte) (Record, error) {
	var probe struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "credential content is not valid JSON")
	}

	switch probe.Type {
	case TypeEmployment:
		var doc canonicalEmployment
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "malformed employment credential")
		}
		return &Employment{
			meta:         Meta{ID: doc.CredentialID, Type: doc.Type, Status: doc.Status, IssueDate: doc.IssueDate},
			EmployeeName: doc.EmployeeName,
			EmployeeID:   doc.EmployeeID,
			Company:      doc.Company,
			Role:         doc.Role,
			StartDate:    doc.StartDate,
			EndDate:      doc.EndDate,
			ReferenceID:  doc.ReferenceID,
			ProofURL:     doc.ProofURL,
			Notes:        doc.Notes,
			Image:        doc.Image,
		}, nil
	case TypeEducation:
		var doc canonicalEducation
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "malformed education credential")
		}
		return &Education{
			meta:        Meta{ID: doc.CredentialID, Type: doc.Type, Status: doc.Status, IssueDate: doc.IssueDate},
			StudentName: doc.StudentName,
			StudentID:   doc.StudentID,
			Institution: doc.Institution,
			Degree:      doc.Degree,
			Major:       doc.Major,
			StartDate:   doc.StartDate,
			EndDate:     doc.EndDate,
			ReferenceID: doc.ReferenceID,
			ProofURL:    doc.ProofURL,
			Notes:       doc.Notes,
			Image:       doc.Image,
		}, nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown credential type: "+string(probe.Type))
	}
}
