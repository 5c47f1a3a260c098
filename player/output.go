package player

// Output is the single audio device owned by the playback engine. No
// other component may address it: the engine is the only caller, and
// the raw device handle is never exposed.
//
// Load binds a new media source; loading while a previous source is
// still loading abandons the old load. The token passed to Load tags
// every event the driver reports for that source, so the engine can
// discard events from a source it has already moved past. All methods
// must be safe to call with no source bound (pause/resume on an idle
// device must not fail the caller).
type Output interface {
	Load(url string, token uint64)
	Play()
	Pause()
	Seek(seconds float64)
	SetVolume(volume float64)
}

// EventSink receives the asynchronous event feed of an Output driver.
// *Engine implements it; drivers call these from their media callbacks.
//
// Events carry the token of the Load they belong to. Delivery cadence
// is the driver's native one; progress is best-effort, last-event-wins.
type EventSink interface {
	// HandleProgress reports the current playback position in seconds.
	HandleProgress(token uint64, seconds float64)
	// HandleMetadata reports the source duration in seconds once known.
	HandleMetadata(token uint64, seconds float64)
	// HandleEnded reports that the source played to completion.
	HandleEnded(token uint64)
}
