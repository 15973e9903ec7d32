package config

// Lua schema field names and globals
const (
	luaGlobalStockfish           = "stockfish"
	luaFieldVersion              = "version"
	luaFieldAsset                = "asset"
	luaFieldMember               = "member"
	luaFieldBaseURL              = "base_url"
	luaFieldPackage              = "package"
	luaFieldPackageManager       = "package_manager"
	luaFieldFallbackOnPkgFailure = "fallback_on_package_failure"
	luaFieldTarget               = "target"
	luaFieldTimeout              = "timeout"
	luaFieldRetries              = "retries"
	luaFieldSHA256               = "sha256"
	luaFieldSignatureURL         = "signature_url"
	luaFieldKeyring              = "keyring"
	luaFieldProbe                = "probe"
)

// Defaults.
const (
	DefaultVersion        = "sf_17"
	DefaultBaseURL        = "https://github.com/official-stockfish/Stockfish/releases/download"
	DefaultPackage        = "stockfish"
	DefaultPackageManager = "apt-get"
	DefaultTarget         = "./stockfish"
	DefaultFile           = "sfinstall.lua"
	DefaultRetries        = 3
)

// Resource limits for config parsing.
const (
	MaxConfigSize    = 1 << 20 // bytes
	luaCallStackSize = 256
	luaRegistrySize  = 1024 * 8
)
