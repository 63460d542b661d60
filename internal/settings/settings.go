// Package settings is the single source of truth for which storage backend
// is active and for its credentials. Values are persisted immediately on
// every write; the settings screen is the only writer.
package settings

// Persisted keys. The names match the original dashboard's storage entries
// so an exported settings dump stays recognizable.
const (
	KeyBackend       = "db_type"
	KeySheetsAPIKey  = "sheets_api_key"
	KeySpreadsheetID = "sheets_spreadsheet_id"
	KeySupabaseURL   = "supabase_url"
	KeySupabaseKey   = "supabase_anon_key"
	KeyDriveAPIKey   = "drive_api_key"
	KeyDriveFolderID = "drive_folder_id"
	KeyOAuthToken    = "google_oauth_token"
)

// Backend selector values
const (
	BackendSheets   = "google_sheets"
	BackendSupabase = "supabase"
)

// Configurable service kinds accepted by IsConfigured
const (
	KindSheets   = "sheets"
	KindSupabase = "supabase"
	KindDrive    = "drive"
)

// Backing is the persistence the store writes through. Satisfied by
// *localstore.Store.
type Backing interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store reads and writes dashboard settings through a Backing.
type Store struct {
	kv Backing
}

// NewStore returns a settings store persisting through kv
func NewStore(kv Backing) *Store {
	return &Store{kv: kv}
}

// defaults hold documented fallback values for unset keys. Credentials have
// no defaults: a value only counts as configured once the operator saved it.
var defaults = map[string]string{
	KeyBackend: BackendSheets,
}

// Get returns the persisted value for key, or its documented default.
// Storage read failures degrade to the default rather than blocking callers.
func (s *Store) Get(key string) string {
	value, ok, err := s.kv.Get(key)
	if err != nil || !ok {
		return defaults[key]
	}
	return value
}

// Set persists value under key immediately
func (s *Store) Set(key, value string) error {
	return s.kv.Set(key, value)
}

// Delete removes a persisted setting
func (s *Store) Delete(key string) error {
	return s.kv.Delete(key)
}

// Backend returns the active backend selector
func (s *Store) Backend() string {
	return s.Get(KeyBackend)
}

// OAuthToken returns the stored Google OAuth token, if any
func (s *Store) OAuthToken() string {
	return s.Get(KeyOAuthToken)
}

// IsConfigured reports whether the given service kind has enough credentials
// to be used: both of its required fields are non-empty, or (for the Google
// services) an OAuth token is present.
func (s *Store) IsConfigured(kind string) bool {
	switch kind {
	case KindSheets:
		if s.Get(KeySheetsAPIKey) != "" && s.Get(KeySpreadsheetID) != "" {
			return true
		}
		return s.OAuthToken() != ""
	case KindSupabase:
		return s.Get(KeySupabaseURL) != "" && s.Get(KeySupabaseKey) != ""
	case KindDrive:
		if s.Get(KeyDriveAPIKey) != "" && s.Get(KeyDriveFolderID) != "" {
			return true
		}
		return s.OAuthToken() != ""
	}
	return false
}
