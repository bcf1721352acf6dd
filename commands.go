package gekko

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Stop ends the main loop after the current pass.
func (cmd *Commands) Stop() {
	cmd.app.stopping = true
}

// OnStop registers fn to run after the main loop exits.
func (cmd *Commands) OnStop(fn func()) *Commands {
	cmd.app.onStop = append(cmd.app.onStop, fn)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
