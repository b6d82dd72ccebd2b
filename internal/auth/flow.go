package auth

import (
	"github.com/google/uuid"

	"github.com/gpslab/clientcore/internal/storage"
)

// FlowState keeps the ephemeral OAuth handshake state in the session
// namespace: state and nonce survive the redirect round trip and nothing
// else.
type FlowState struct {
	session *storage.Store
}

// NewFlowState wraps a session-namespace store.
func NewFlowState(session *storage.Store) *FlowState {
	return &FlowState{session: session}
}

// Begin generates and stores a fresh state and nonce pair for an OAuth
// redirect, returning both.
func (f *FlowState) Begin(returnURL string) (state, nonce string) {
	state = uuid.NewString()
	nonce = uuid.NewString()

	f.session.Set(storage.SessionKeyOAuthState, state, storage.SetOptions{})
	f.session.Set(storage.SessionKeyOAuthNonce, nonce, storage.SetOptions{})
	if returnURL != "" {
		f.session.Set(storage.SessionKeyReturnURL, returnURL, storage.SetOptions{})
	}
	return state, nonce
}

// Verify checks the state returned by the provider against the stored
// one and consumes the pair. A second Verify with the same state fails:
// the handshake is single-use.
func (f *FlowState) Verify(state string) bool {
	stored, _ := f.session.Get(storage.SessionKeyOAuthState, "").(string)
	if stored == "" || stored != state {
		return false
	}

	f.session.Remove(storage.SessionKeyOAuthState)
	f.session.Remove(storage.SessionKeyOAuthNonce)
	return true
}

// ReturnURL pops the stored post-login destination, or def when none was
// recorded.
func (f *FlowState) ReturnURL(def string) string {
	url, _ := f.session.Get(storage.SessionKeyReturnURL, def).(string)
	f.session.Remove(storage.SessionKeyReturnURL)
	if url == "" {
		return def
	}
	return url
}
