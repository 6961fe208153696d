package pubsub

// Typed publish helpers binding each event payload to its topic, so
// callers cannot send a payload on the wrong one.

// PublishGameRecorded announces a newly recorded game.
func PublishGameRecorded(c PubSubClient, ev GameEvent) error {
	return c.SendMessage(string(EventGameRecorded), ev)
}

// PublishGameReversed announces an undone game.
func PublishGameReversed(c PubSubClient, ev GameEvent) error {
	return c.SendMessage(string(EventGameReversed), ev)
}

// PublishDecayCompleted announces a finished decay pass.
func PublishDecayCompleted(c PubSubClient, ev DecayEvent) error {
	return c.SendMessage(string(EventDecayCompleted), ev)
}

// PublishSnapshot hands a full state export to the downstream archiver.
func PublishSnapshot(c PubSubClient, ev SnapshotEvent) error {
	return c.SendMessage(string(EventExportSnapshot), ev)
}
