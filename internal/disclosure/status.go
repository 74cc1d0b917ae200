package disclosure

// Status is the submitted/failed region shown after an external call.
type Status struct {
	shown   bool
	failed  bool
	message string
}

// Succeed shows a confirmation.
func (s *Status) Succeed(msg string) {
	s.shown, s.failed, s.message = true, false, msg
}

// Fail shows an error message.
func (s *Status) Fail(msg string) {
	s.shown, s.failed, s.message = true, true, msg
}

// Reset hides the region.
func (s *Status) Reset() { *s = Status{} }

func (s *Status) Shown() bool     { return s.shown }
func (s *Status) Failed() bool    { return s.shown && s.failed }
func (s *Status) Message() string { return s.message }

// ScrollTarget is a one-shot "jump to section" command.
type ScrollTarget struct {
	id string
}

// JumpTo queues a scroll to the element id.
func (s *ScrollTarget) JumpTo(id string) { s.id = id }

// Take returns the queued id and clears it.
func (s *ScrollTarget) Take() string {
	id := s.id
	s.id = ""
	return id
}
