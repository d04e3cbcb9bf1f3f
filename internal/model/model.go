package model

// AllModels is the migration set, parents before children.
func AllModels() []any {
	return []any{&User{}, &Job{}, &Candidate{}, &Application{}, &Note{}, &Document{}, &AuditLog{}}
}
