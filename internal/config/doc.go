// Package config loads the notedrop configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/notedrop/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. NOTEDROP_BACKEND_URL and NOTEDROP_API_KEY override the file
//
// # TOML Format
//
//	[backend]
//	kind = "rest"            # rest | sqlite | postgres | file
//	url = "https://xyz.supabase.co"
//	api_key = "..."
//	table = "airdrop_collections"
//	dsn = "~/.local/share/notedrop/notedrop.db"
//	requests_per_second = 5
//
//	[listing]
//	page_size = 20
//	debounce_ms = 300
//
//	[serve]
//	addr = "127.0.0.1:8080"
//
//	[log]
//	path = "~/.local/state/notedrop/notedrop.log"
//	level = "info"
//
// Every field is optional. Tilde expansion is performed for file paths.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors and unknown backend kinds. A missing
// backend URL or key is not an error here; the REST client reports it so the
// UI can show its configuration message.
package config
