package skills

import "voxie/internal/state"

// Mentor mode (formerly "study mode") is a single persisted boolean; the
// legacy study_* intents and the new mentor intent all land here.

func MentorOn(store *state.Store) Result {
	// pending_confirm lets the app later ask short vs step-by-step.
	if err := store.EnableStudy(true); err != nil {
		return Fail("STUDY_SAVE_FAIL")
	}
	return Say("Modalità mentore attivata. Dimmi cosa vuoi capire e ti guido passo-passo.")
}

func MentorOff(store *state.Store) Result {
	if err := store.DisableStudy(); err != nil {
		return Fail("STUDY_SAVE_FAIL")
	}
	return Say("Modalità mentore disattivata.")
}
