package state

// StudyState is the single boolean mode flag of the assistant plus a soft
// confirmation bit (step-by-step vs short answers, asked later).
type StudyState struct {
	Enabled        bool `json:"enabled"`
	PendingConfirm bool `json:"pending_confirm"`
}

const studyDoc = "study"

func (s *Store) LoadStudy() StudyState {
	var st StudyState
	s.Load(studyDoc, &st)
	return st
}

func (s *Store) EnableStudy(pendingConfirm bool) error {
	return s.Save(studyDoc, StudyState{Enabled: true, PendingConfirm: pendingConfirm})
}

func (s *Store) DisableStudy() error {
	return s.Save(studyDoc, StudyState{})
}
