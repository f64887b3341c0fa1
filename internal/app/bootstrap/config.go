// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CollabHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, identity_cookie_name, etc.
//   - Environment variables: COLLABHUB_MONGO_URI, COLLABHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --identity_cookie_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "collab_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Identity
	{Name: "identity_cookie_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Cookie signing key (must be strong in production)"},
	{Name: "identity_cookie_name", Default: "collabhub-session", Desc: "Identity cookie name"},
	{Name: "jwt_secret", Default: "dev-only-jwt-secret", Desc: "HS256 secret shared with the campus gateway"},

	// File storage for submission uploads
	{Name: "storage_local_path", Default: "./uploads/submissions", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files/submissions", Desc: "URL prefix for serving local files"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COLLABHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COLLABHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		CookieKey:  appValues.String("identity_cookie_key"),
		CookieName: appValues.String("identity_cookie_name"),
		JWTSecret:  appValues.String("jwt_secret"),

		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. The MongoDB URI
// is checked up front so a bad connection string fails at startup, not on
// the first request.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if coreCfg.Env == "prod" {
		if appCfg.JWTSecret == "dev-only-jwt-secret" {
			return fmt.Errorf("jwt_secret must be set in production")
		}
		if appCfg.CookieKey == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("identity_cookie_key must be set in production")
		}
	}
	return nil
}
