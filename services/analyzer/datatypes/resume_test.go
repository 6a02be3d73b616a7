// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "testing"

func validWorkExperience() WorkExperience {
	return WorkExperience{
		Company:     "Acme",
		Role:        "Engineer",
		StartDate:   "2020-01",
		EndDate:     "Present",
		Description: "Built things",
	}
}

func TestWorkExperience_Validation(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		if err := Validate(validWorkExperience()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing company", func(t *testing.T) {
		w := validWorkExperience()
		w.Company = ""
		if err := Validate(w); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("missing description", func(t *testing.T) {
		w := validWorkExperience()
		w.Description = ""
		if err := Validate(w); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestWorkExperience_DateFormats(t *testing.T) {
	testCases := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"year month", "2020-01", false},
		{"present marker", "Present", false},
		{"empty is optional", "", false},
		{"full date", "2020-01-15", true},
		{"year only", "2020", true},
		{"month out of range", "2020-13", true},
		{"free text", "last spring", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := validWorkExperience()
			w.EndDate = tc.date
			err := Validate(w)
			if tc.wantErr && err == nil {
				t.Errorf("date %q should be rejected", tc.date)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("date %q should be accepted: %v", tc.date, err)
			}
		})
	}
}

func validEducation() Education {
	return Education{
		Institution: "State University",
		Degree:      "BSc",
		Field:       "Computer Science",
		StartYear:   2016,
		EndYear:     2020,
	}
}

func TestEducation_Validation(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		if err := Validate(validEducation()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("end year before start year", func(t *testing.T) {
		e := validEducation()
		e.StartYear = 2020
		e.EndYear = 2016
		if err := Validate(e); err == nil {
			t.Error("expected validation error for end_year < start_year")
		}
	})

	t.Run("same start and end year", func(t *testing.T) {
		e := validEducation()
		e.StartYear = 2020
		e.EndYear = 2020
		if err := Validate(e); err != nil {
			t.Errorf("equal years should be accepted: %v", err)
		}
	})

	t.Run("year out of range", func(t *testing.T) {
		e := validEducation()
		e.StartYear = 1850
		if err := Validate(e); err == nil {
			t.Error("expected validation error for year before 1900")
		}
	})

	t.Run("missing field of study", func(t *testing.T) {
		e := validEducation()
		e.Field = ""
		if err := Validate(e); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestEducationList_DivesIntoEntries(t *testing.T) {
	bad := validEducation()
	bad.EndYear = 1800

	list := EducationList{Education: []Education{validEducation(), bad}}
	if err := Validate(list); err == nil {
		t.Error("expected validation error from nested entry")
	}
}

func TestResumeInsights_RequiresEntries(t *testing.T) {
	if err := Validate(ResumeInsights{Insights: []string{"one"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate(ResumeInsights{Insights: []string{}}); err == nil {
		t.Error("expected validation error for empty insights")
	}
}

func TestInterviewQuestions_RequiresEntries(t *testing.T) {
	if err := Validate(InterviewQuestions{Questions: []string{"one"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate(InterviewQuestions{}); err == nil {
		t.Error("expected validation error for missing questions")
	}
}
