package model

// Stage is the pipeline position of an application.
type Stage string

const (
	StageResumeReceived     Stage = "resume_received"
	StageScreened           Stage = "screened"
	StageVetted             Stage = "vetted"
	StageInterviewScheduled Stage = "interview_scheduled"
	StageInterviewCompleted Stage = "interview_completed"
	StageClientSubmitted    Stage = "client_submitted"
	StageClientInterview    Stage = "client_interview"
	StageOfferAwaiting      Stage = "offer_awaiting"
	StageOfferReleased      Stage = "offer_released"
	StageH1BFiled           Stage = "h1b_filed"
	StageRejected           Stage = "rejected"
	StageHired              Stage = "hired"
)

// Stages lists every stage in pipeline order, terminal stages last.
var Stages = []Stage{
	StageResumeReceived,
	StageScreened,
	StageVetted,
	StageInterviewScheduled,
	StageInterviewCompleted,
	StageClientSubmitted,
	StageClientInterview,
	StageOfferAwaiting,
	StageOfferReleased,
	StageH1BFiled,
	StageRejected,
	StageHired,
}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

func (s Stage) IsTerminal() bool {
	return s == StageHired || s == StageRejected
}

type VisaStatus string

const (
	VisaH1B     VisaStatus = "h1b"
	VisaOPT     VisaStatus = "opt"
	VisaSTEMOPT VisaStatus = "stem_opt"
	VisaEAD     VisaStatus = "ead"
	VisaL1      VisaStatus = "l1"
	VisaTN      VisaStatus = "tn"
	VisaGC      VisaStatus = "gc"
	VisaCitizen VisaStatus = "citizen"
	VisaOther   VisaStatus = "other"
)

var VisaStatuses = []VisaStatus{VisaH1B, VisaOPT, VisaSTEMOPT, VisaEAD, VisaL1, VisaTN, VisaGC, VisaCitizen, VisaOther}

func (v VisaStatus) Valid() bool {
	for _, vs := range VisaStatuses {
		if vs == v {
			return true
		}
	}
	return false
}

type JobType string

const (
	JobTypeFullTime JobType = "full_time"
	JobTypeContract JobType = "contract"
	JobTypeC2C      JobType = "c2c"
	JobTypeW2       JobType = "w2"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusOnHold JobStatus = "on_hold"
	JobStatusClosed JobStatus = "closed"
)

func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusOnHold || s == JobStatusClosed
}

type DocType string

const (
	DocResume      DocType = "resume"
	DocPassport    DocType = "passport"
	DocVisaStamp   DocType = "visa_stamp"
	DocI797        DocType = "i797"
	DocI94         DocType = "i94"
	DocEAD         DocType = "ead"
	DocLCA         DocType = "lca"
	DocOfferLetter DocType = "offer_letter"
	DocOther       DocType = "other"
)

var DocTypes = []DocType{DocResume, DocPassport, DocVisaStamp, DocI797, DocI94, DocEAD, DocLCA, DocOfferLetter, DocOther}

// ParseDocType falls back to DocOther for anything unrecognised.
func ParseDocType(s string) DocType {
	for _, d := range DocTypes {
		if string(d) == s {
			return d
		}
	}
	return DocOther
}

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleRecruiter     Role = "recruiter"
	RoleHiringManager Role = "hiring_manager"
	RoleViewer        Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRecruiter || r == RoleHiringManager || r == RoleViewer
}

type CandidateSource string

const (
	SourceJobBoard CandidateSource = "job_board"
	SourceInternal CandidateSource = "internal"
	SourceReferral CandidateSource = "referral"
)
