// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the analyzer service.
//
// This file contains the structured entities extracted from résumé text.
// Validation happens at the schema boundary: a model response that fails
// these constraints is rejected before it reaches the workflow state.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// resumeValidate is the validator instance for résumé datatypes.
// Initialized in init() with custom validators.
var resumeValidate *validator.Validate

func init() {
	resumeValidate = validator.New()

	// Dates on work entries are either YYYY-MM or the literal "Present".
	_ = resumeValidate.RegisterValidation("ymdate", validateYearMonth)
}

// validateYearMonth accepts an empty value, "Present", or a YYYY-MM date.
//
// # Inputs
//
//   - fl: Validator field level containing the string to validate
//
// # Outputs
//
//   - bool: true when the field is a valid date marker
func validateYearMonth(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" || v == "Present" {
		return true
	}
	_, err := time.Parse("2006-01", v)
	return err == nil
}

// Validate runs struct validation against the shared validator instance.
//
// # Description
//
// Exposed so the workflow and llm packages validate model output with the
// same rules the HTTP boundary uses. Returns validator.ValidationErrors
// on failure.
func Validate(v any) error {
	return resumeValidate.Struct(v)
}

// =============================================================================
// Extracted Entities
// =============================================================================

// WorkExperience is one position extracted from the résumé.
//
// # Fields
//
//   - Company: Required. Employer name.
//   - Role: Required. Job title.
//   - StartDate: Optional. YYYY-MM format.
//   - EndDate: Optional. YYYY-MM format, or "Present" for current positions.
//   - Description: Required. What the candidate did in the role.
type WorkExperience struct {
	Company     string `json:"company" validate:"required,min=1"`
	Role        string `json:"role" validate:"required,min=1"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,ymdate"`
	EndDate     string `json:"end_date,omitempty" validate:"omitempty,ymdate"`
	Description string `json:"description" validate:"required,min=1"`
}

// WorkExperienceList is the schema the extraction node expects from the model.
type WorkExperienceList struct {
	WorkExperiences []WorkExperience `json:"work_experiences" validate:"dive"`
}

// Education is one education entry extracted from the résumé.
//
// The end_year >= start_year invariant is enforced here, not repaired
// downstream: an entry violating it fails validation and the whole payload
// is treated as a parse failure.
type Education struct {
	Institution string `json:"institution" validate:"required,min=1"`
	Degree      string `json:"degree" validate:"required,min=1"`
	Field       string `json:"field" validate:"required,min=1"`
	StartYear   int    `json:"start_year" validate:"gte=1900,lte=2030"`
	EndYear     int    `json:"end_year" validate:"gte=1900,lte=2030,gtefield=StartYear"`
}

// EducationList is the schema the education node expects from the model.
type EducationList struct {
	Education []Education `json:"education" validate:"dive"`
}

// ResumeInsights is the schema the insights node expects from the model.
type ResumeInsights struct {
	Insights []string `json:"insights" validate:"required,min=1"`
}

// InterviewQuestions is the schema the question node expects from the model.
type InterviewQuestions struct {
	Questions []string `json:"questions" validate:"required,min=1"`
}
