// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds the CollabHub-specific configuration, loaded and merged
// by WAFFLE's config layer (files, COLLABHUB_* env vars, flags).
type AppConfig struct {
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Identity: signed session cookie plus bearer JWTs minted by the
	// campus gateway.
	CookieKey  string
	CookieName string
	JWTSecret  string

	// File storage for submission uploads.
	StorageLocalPath string
	StorageLocalURL  string
}
