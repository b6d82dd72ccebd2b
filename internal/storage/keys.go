package storage

// Namespace prefixes. Every record the local store touches lives under
// LocalPrefix; the session store uses SessionPrefix. Cache entries get an
// additional CachePrefix inside the namespace, and expiry companions are
// suffixed with ExpirySuffix.
// The two namespace prefixes are deliberately not prefixes of each
// other, so stores sharing one backend cannot clear or enumerate each
// other's records.
const (
	LocalPrefix   = "gpslab_local_"
	SessionPrefix = "gpslab_session_"
	CachePrefix   = "cache_"
	ExpirySuffix  = "_expiry"
)

// Local namespace keys.
const (
	// Auth
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyTokenExpiry  = "token_expiry"
	KeyUser         = "user"

	// Preferences
	KeyTheme                = "theme"
	KeyLocale               = "locale"
	KeySoundEnabled         = "sound_enabled"
	KeyNotificationsEnabled = "notifications_enabled"

	// Progress and UI state
	KeyCurrentMission = "current_mission"
	KeyStudyProgress  = "study_progress"
	KeyCheckpoint     = "checkpoint_state"
	KeySidebarState   = "sidebar_state"
	KeyDraftContent   = "draft_content"
	KeyLastStage      = "last_stage"
)

// Session namespace keys for ephemeral navigation and auth-flow state.
const (
	SessionKeyReturnURL     = "return_url"
	SessionKeyOAuthState    = "oauth_state"
	SessionKeyOAuthNonce    = "oauth_nonce"
	SessionKeyPendingAction = "pending_action"
	SessionKeyFormDraft     = "form_draft"
	SessionKeyListFilter    = "list_filter"
	SessionKeyListSort      = "list_sort"
)
