package engo

import (
	"testing"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-padgame/pkg/config"
	"github.com/opd-ai/go-padgame/pkg/event"
	"github.com/opd-ai/go-padgame/pkg/game"
	"github.com/opd-ai/go-padgame/pkg/gamepad"
	"github.com/opd-ai/go-padgame/pkg/physics"
	"github.com/opd-ai/go-padgame/pkg/sim"
)

type fixedInput struct{}

func (fixedInput) Latest() gamepad.Snapshot { return gamepad.Snapshot{} }
func (fixedInput) Connected() bool          { return true }

func newTestGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame(config.DefaultConfig(), event.NewEventBus(), fixedInput{}, 7)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return g
}

func TestGameScene_Type(t *testing.T) {
	scene := NewGameScene(newTestGame(t), nil)
	if scene.Type() != "PadGameScene" {
		t.Errorf("Type = %q", scene.Type())
	}
}

func TestUpdateSystem_SyncEntities(t *testing.T) {
	g := newTestGame(t)
	s := newUpdateSystem(g, nil)
	s.player = &shapeEntity{BasicEntity: ecs.NewBasic()}
	s.target = &shapeEntity{BasicEntity: ecs.NewBasic()}

	state := game.State{
		Player: sim.PlayerState{
			Position: physics.Vector2D{X: 100, Y: 80},
			Rotation: 45,
			Scale:    2,
		},
		Target: physics.Vector2D{X: 30, Y: 40},
	}
	s.syncEntities(state)

	// Player footprint is size x scale, positioned by top-left corner.
	size := float32(g.Config.Player.Size * 2)
	if s.player.SpaceComponent.Width != size || s.player.SpaceComponent.Height != size {
		t.Errorf("player size = %fx%f, want %f",
			s.player.SpaceComponent.Width, s.player.SpaceComponent.Height, size)
	}
	if s.player.SpaceComponent.Position.X != 100-size/2 || s.player.SpaceComponent.Position.Y != 80-size/2 {
		t.Errorf("player position = %+v", s.player.SpaceComponent.Position)
	}
	if s.player.SpaceComponent.Rotation != 45 {
		t.Errorf("player rotation = %f, want 45", s.player.SpaceComponent.Rotation)
	}

	targetSize := float32(g.Config.Target.Size)
	if s.target.SpaceComponent.Width != targetSize {
		t.Errorf("target size = %f, want %f", s.target.SpaceComponent.Width, targetSize)
	}
	if s.target.SpaceComponent.Position.X != 30-targetSize/2 {
		t.Errorf("target position = %+v", s.target.SpaceComponent.Position)
	}
}

// recordingPoller counts PollOnce calls.
type recordingPoller struct {
	polls int
}

func (p *recordingPoller) PollOnce() { p.polls++ }

func TestUpdateSystem_PollsAndAdvances(t *testing.T) {
	g := newTestGame(t)
	g.Start()

	poller := &recordingPoller{}
	s := newUpdateSystem(g, poller)
	s.player = &shapeEntity{BasicEntity: ecs.NewBasic()}
	s.target = &shapeEntity{BasicEntity: ecs.NewBasic()}

	s.Update(0.016)
	s.Update(0.016)

	if poller.polls != 2 {
		t.Errorf("PollOnce calls = %d, want 2", poller.polls)
	}
	if g.Tick() != 2 {
		t.Errorf("game ticks = %d, want 2", g.Tick())
	}
}
