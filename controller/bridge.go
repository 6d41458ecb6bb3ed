package controller

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/zazu-22/scoreplay"
)

// attach subscribes to all ten engine callback streams, exactly once per
// session. The handlers close over nothing but the session id and the
// broker: they tag each payload with the id and enqueue it, and the
// controller drops anything whose id no longer matches the live session.
// An event arriving concurrently with teardown is thereby discarded instead
// of acting on a destroyed session.
func (c *Controller) attach(s *session) {
	post := func(id uint64) func(data any) {
		return func(data any) {
			TrySend(c.broker.ToController, MsgToController{Session: id, Data: data})
		}
	}(s.id)
	postPos := func(id uint64) func(pc scoreplay.PositionChange) {
		return func(pc scoreplay.PositionChange) {
			TrySend(c.broker.ToController, MsgToController{Session: id, HasPosition: true, Position: pc})
		}
	}(s.id)

	ev := s.engine.Events()
	s.offs = append(s.offs,
		ev.ScoreLoaded.On(func(score *scoreplay.Score) { post(scoreLoadedMsg{score}) }),
		ev.Error.On(func(err error) { post(engineErrorMsg{err}) }),
		ev.PlayerStateChanged.On(func(state scoreplay.PlayerState) { post(playerStateMsg{state}) }),
		ev.PlayerReady.On(func(struct{}) { post(playerReadyMsg{}) }),
		ev.RenderStarted.On(func(struct{}) { post(renderStartedMsg{}) }),
		ev.RenderFinished.On(func(struct{}) { post(renderFinishedMsg{}) }),
		ev.PositionChanged.On(postPos),
		ev.PlayerFinished.On(func(struct{}) { post(playerFinishedMsg{}) }),
		ev.BeatMouseDown.On(func(click scoreplay.BeatClick) { post(beatClickMsg{click}) }),
		ev.MidiEventsPlayed.On(func(msgs []midi.Message) { post(midiEventsMsg{msgs}) }),
	)
}
