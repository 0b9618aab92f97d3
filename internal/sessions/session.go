package sessions

import "time"

// Session is the per-browser state: the signed-in user and at most one
// pending error and one pending success message. Setting a flash replaces
// the previous one.
type Session struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username,omitempty" json:"username,omitempty"`
	FlashError   string    `bson:"error,omitempty" json:"error,omitempty"`
	FlashSuccess string    `bson:"success,omitempty" json:"success,omitempty"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`

	dirty   bool
	rotated bool
}

func (s *Session) IsAuthenticated() bool { return s.Username != "" }

// SignIn records username. A change of user marks the session id for
// replacement on the next save.
func (s *Session) SignIn(username string) {
	if s.Username != username {
		s.rotated = true
	}
	s.Username = username
	s.dirty = true
}

func (s *Session) SignOut() {
	s.Username = ""
	s.dirty = true
}

func (s *Session) SetError(msg string) {
	s.FlashError = msg
	s.dirty = true
}

func (s *Session) SetSuccess(msg string) {
	s.FlashSuccess = msg
	s.dirty = true
}

// PopError returns the pending error message and clears it.
func (s *Session) PopError() string {
	msg := s.FlashError
	if msg != "" {
		s.FlashError = ""
		s.dirty = true
	}
	return msg
}

// PopSuccess returns the pending success message and clears it.
func (s *Session) PopSuccess() string {
	msg := s.FlashSuccess
	if msg != "" {
		s.FlashSuccess = ""
		s.dirty = true
	}
	return msg
}

func (s *Session) PeekError() string   { return s.FlashError }
func (s *Session) PeekSuccess() string { return s.FlashSuccess }

// Empty reports whether there is nothing worth persisting.
func (s *Session) Empty() bool {
	return s.Username == "" && s.FlashError == "" && s.FlashSuccess == ""
}

// Changed reports whether the session was modified since it was loaded or saved.
func (s *Session) Changed() bool { return s.dirty }

func (s *Session) markSaved() {
	s.dirty = false
	s.rotated = false
}
