package content

// Config holds the content tree settings.
type Config struct {
	// Root is the git working tree holding the sources.
	Root string `mapstructure:"root" default:"."`
	// LockFile guards against concurrent updates. Relative paths are inside Root/.git.
	LockFile string `mapstructure:"lock_file" default:"content-manager.lock"`
	// Articles is the glob of article sources.
	Articles string `mapstructure:"articles" default:"blog/**/*.md"`
	// Pages is the glob of page sources.
	Pages string `mapstructure:"pages" default:"pages/**/*.md"`
	// Assets is the glob of binary assets.
	Assets string `mapstructure:"assets" default:"assets/**"`
	// AssetPrefix is prepended to asset object names in storage.
	AssetPrefix string `mapstructure:"asset_prefix" default:"content"`
	// Colour forces coloured previews and reports (auto, always, never).
	Colour string `mapstructure:"colour" default:"auto"`
}
