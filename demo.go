package courtside

import (
	"github.com/gekko3d/courtside/interact"
)

func grabStateIs(want interact.State) func(cmd *Commands) bool {
	return func(cmd *Commands) bool {
		g, ok := Resource[GrabState](cmd.app)
		return ok && g.Controller.State() == want
	}
}

func courtReady(cmd *Commands) bool {
	return cmd.app.State() == CourtPlaying
}

// DemoScript plays one grab and throw: wait for the ball to come to rest,
// look at it, pick it up, hold the throw key for throwFrames frames and
// watch the ball land.
func DemoScript(ball string, throwKey int, throwFrames int) []ScriptStep {
	settled := Settled(ball)
	return []ScriptStep{
		{
			Note:    "waiting for the court",
			Until:   func(cmd *Commands) bool { return courtReady(cmd) && settled(cmd) },
			Timeout: 900,
		},
		{
			Note:    "looking at the " + ball,
			AimAt:   ball,
			Until:   grabStateIs(interact.Targeted),
			Timeout: 10,
		},
		{
			Note:    "grabbing",
			Press:   []int{MouseButtonLeft},
			Until:   grabStateIs(interact.Held),
			Timeout: 10,
		},
		{
			Note:    "carrying",
			Release: []int{MouseButtonLeft},
			Frames:  30,
		},
		{
			Note:   "throwing",
			Press:  []int{throwKey},
			Frames: max(throwFrames, 1),
		},
		{
			Note:    "letting go",
			Release: []int{throwKey},
			Until:   grabStateIs(interact.Free),
			Timeout: 10,
		},
		{
			Note:    "watching the " + ball + " land",
			Until:   settled,
			Timeout: 900,
		},
	}
}
