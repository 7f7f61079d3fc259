package skills

import "time"

// Clock is injectable so tests can pin the spoken time.
type Clock func() time.Time

func TimeNow(clock Clock) Result {
	if clock == nil {
		clock = time.Now
	}
	return Say("Sono le " + clock().Format("15:04"))
}
