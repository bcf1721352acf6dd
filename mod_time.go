package gekko

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Start time.Time
}

// Elapsed is the time since the module was installed.
func (t *Time) Elapsed() time.Duration {
	return t.Time.Sub(t.Start)
}

type TimeModule struct {
	// Now is optional; tests pin it to a fake clock.
	Now func() time.Time
}

type clock struct {
	now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	cmd.AddResources(
		&Time{Time: start, Start: start},
		&clock{now: now},
	)
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time, c *clock) {
	now := c.now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
