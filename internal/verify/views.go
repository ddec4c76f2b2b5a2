package verify

import (
	"strings"

	"verifyhr/internal/content"
	"verifyhr/internal/credential"
)

// EmploymentView is the curated subset of a verified employment credential
// shown to relying parties. Internal identifiers and free-form notes are
// deliberately absent.
type EmploymentView struct {
	Company   string `json:"company"`
	Role      string `json:"role"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Image     string `json:"image,omitempty"`
}

// EducationView is the curated subset of a verified education credential.
type EducationView struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Major       string `json:"major"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Image       string `json:"image,omitempty"`
}

func employmentView(rec *credential.Employment, gateway string) *EmploymentView {
	return &EmploymentView{
		Company:   rec.Company,
		Role:      rec.Role,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Image:     rewriteImageURL(rec.Image, gateway),
	}
}

func educationView(rec *credential.Education, gateway string) *EducationView {
	return &EducationView{
		Institution: rec.Institution,
		Degree:      rec.Degree,
		Major:       rec.Major,
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
		Image:       rewriteImageURL(rec.Image, gateway),
	}
}

// rewriteImageURL turns content-addressed image URIs into fetchable gateway
// URLs. Anything without the scheme passes through untouched.
func rewriteImageURL(url, gateway string) string {
	if gateway == "" || !strings.HasPrefix(url, content.RemoteScheme) {
		return url
	}
	return strings.TrimSuffix(gateway, "/") + "/" + strings.TrimPrefix(url, content.RemoteScheme)
}
