// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package workflow

// Prompt templates for the model-backed nodes. Each structured prompt ends
// with format instructions naming the exact JSON shape the node validates
// against.

const workExperiencePrompt = `
Extract work experience information from the resume text below. Be precise and accurate.

Resume Text:
%s

Instructions:
- Extract company names, job titles, dates, and descriptions
- Use YYYY-MM format for dates, or "Present" for current positions
- If no work experience found, return empty list
- Be thorough but accurate

%s
`

const workExperienceShape = `{"work_experiences": [{"company": "...", "role": "...", "start_date": "YYYY-MM", "end_date": "YYYY-MM or Present", "description": "..."}]}`

const educationPrompt = `
Extract education information from the resume text below.

Resume Text:
%s

Instructions:
- Extract institution names, degrees, fields of study, and years
- Use 4-digit years (e.g., 2020)
- If no education found, return empty list
- Be accurate with degree types and field names

%s
`

const educationShape = `{"education": [{"institution": "...", "degree": "...", "field": "...", "start_year": 2016, "end_year": 2020}]}`

const summaryPrompt = `
Create a professional resume summary based on the structured data below.

Work Experience:
%s

Education:
%s

Original Resume Text (for context):
%s

Instructions:
- Write a concise, professional summary (2-3 paragraphs)
- Highlight key qualifications, skills, and achievements
- Make it compelling for recruiters
- Focus on career progression and notable accomplishments
- If data is limited, work with what's available
`

const insightsPrompt = `
Extract key professional insights from the resume data below.

Summary: %s

Work Experience: %s

Education: %s

Instructions:
- Identify years of experience in specific areas
- Note leadership roles and team management experience
- Highlight technical skills and expertise
- Mention educational background and certifications
- Point out career progression and achievements
- Focus on quantifiable and notable aspects

%s
`

const insightsShape = `{"insights": ["...", "..."]}`

const questionsPrompt = `
Generate tailored interview questions based on the resume insights below.

Resume Insights:
%s

Instructions:
- Create 5-7 specific, thoughtful interview questions
- Mix behavioral, technical, and situational questions
- Target the candidate's specific experience and skills
- Include questions about leadership, problem-solving, and technical expertise
- Make questions open-ended and insightful
- Avoid generic questions

%s
`

const questionsShape = `{"questions": ["...", "..."]}`

// Degraded defaults for the soft-failure path.
const (
	fallbackInsight  = "Unable to extract detailed insights"
	fallbackQuestion = "Tell me about your professional background and key achievements."
)

// summaryContextLimit caps how much raw text the summary prompt carries.
const summaryContextLimit = 1000
