package dto

type ChangeStageRequest struct {
	Stage           string  `json:"stage"`
	NoteContent     string  `json:"note_content"`
	RejectionReason *string `json:"rejection_reason"`
}

type RejectRequest struct {
	Reason      string `json:"reason"`
	NoteContent string `json:"note_content"`
}

type AssignRequest struct {
	RecruiterID *string `json:"recruiter_id" validate:"omitempty,uuid"`
}

type NoteRequest struct {
	Content string `json:"content"`
}

// ApplyForm holds the text fields of the public application form.
type ApplyForm struct {
	FirstName         string `form:"first_name"`
	LastName          string `form:"last_name"`
	Email             string `form:"email"`
	Phone             string `form:"phone"`
	LocationCity      string `form:"location_city"`
	LocationState     string `form:"location_state"`
	LinkedinURL       string `form:"linkedin_url"`
	VisaStatus        string `form:"visa_status"`
	CurrentEmployer   string `form:"current_employer"`
	ExperienceYears   string `form:"experience_years"`
	SalaryExpectation string `form:"salary_expectation"`
	Skills            string `form:"skills"`
}
