package skills

import "voxie/internal/state"

// Clarify offers a fixed two-option disambiguation and records it with a
// short TTL so the next utterance can be interpreted against it.
func Clarify(store *state.Store) Result {
	if err := store.SetClarify([]string{"news", "weather"}); err != nil {
		return Fail("CLARIFY_SAVE_FAIL")
	}
	return Say("Vuoi che ti aggiorni su ciò che sta accadendo, oppure il meteo?")
}
