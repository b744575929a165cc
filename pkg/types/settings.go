package types

// Well-known settings keys.
const (
	// SettingDirToken holds the host-specific library folder token. It
	// never leaves the machine: backups exclude it and ClearAll keeps it.
	SettingDirToken = "library_dir_token"

	// SettingAPIKey is the user-supplied assistant credential.
	SettingAPIKey = "user_api_key"

	// SettingTheme is the active UI theme identifier.
	SettingTheme = "theme"

	// SettingSchemaVersion tracks applied store migrations.
	SettingSchemaVersion = "schema_version"
)

// ProtectedSettings are keys that survive ClearAll and are excluded from
// portable exports.
var ProtectedSettings = map[string]bool{
	SettingDirToken:      true,
	SettingSchemaVersion: true,
}
