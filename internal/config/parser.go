package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// DefaultParseTimeout bounds Lua execution when ctx has no deadline.
const DefaultParseTimeout = 5 * time.Second

// Parser evaluates Lua configs with the platform table injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector parses without a platform table.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// Load parses path if it exists and returns Default() when it does not.
func (p *Parser) Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := p.ParseFile(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ParseFile parses the Lua config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string. Fields the config does not
// set keep their Default() values.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	L.SetContext(ctx)
	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, &ParseError{Message: "config evaluation timed out", Detail: err.Error()}
		}
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}
	L.RemoveContext()

	return extractConfig(L)
}

// extractConfig reads the global stockfish table over the defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	cfg := Default()

	global := L.GetGlobal(luaGlobalStockfish)
	switch global.Type() {
	case lua.LTNil:
		// An empty file, or one that only sets locals, means defaults.
	case lua.LTTable:
		if err := applyTable(cfg, global.(*lua.LTable)); err != nil {
			return nil, err
		}
	default:
		return nil, &ParseError{
			Message: "invalid 'stockfish' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}

// applyTable copies every recognised field. A field set to the wrong type
// is an error; nil leaves the default in place.
func applyTable(cfg *Config, table *lua.LTable) error {
	strFields := map[string]*string{
		luaFieldVersion:        &cfg.Version,
		luaFieldAsset:          &cfg.Asset,
		luaFieldMember:         &cfg.Member,
		luaFieldBaseURL:        &cfg.BaseURL,
		luaFieldPackage:        &cfg.Package,
		luaFieldPackageManager: &cfg.PackageManager,
		luaFieldTarget:         &cfg.Target,
		luaFieldSHA256:         &cfg.SHA256,
		luaFieldSignatureURL:   &cfg.SignatureURL,
		luaFieldKeyring:        &cfg.Keyring,
	}
	boolFields := map[string]*bool{
		luaFieldFallbackOnPkgFailure: &cfg.FallbackOnPackageFailure,
		luaFieldProbe:                &cfg.Probe,
	}

	var unknown []string
	table.ForEach(func(key, _ lua.LValue) {
		name := key.String()
		_, isStr := strFields[name]
		_, isBool := boolFields[name]
		if !isStr && !isBool && name != luaFieldTimeout && name != luaFieldRetries {
			unknown = append(unknown, name)
		}
	})
	if len(unknown) > 0 {
		return &ParseError{
			Message: "unknown field in 'stockfish' table",
			Detail:  strings.Join(unknown, ", "),
		}
	}

	for name, dst := range strFields {
		v := table.RawGetString(name)
		switch v.Type() {
		case lua.LTNil:
		case lua.LTString:
			*dst = v.String()
		default:
			return typeError(name, "string", v)
		}
	}

	for name, dst := range boolFields {
		v := table.RawGetString(name)
		switch v.Type() {
		case lua.LTNil:
		case lua.LTBool:
			*dst = bool(v.(lua.LBool))
		default:
			return typeError(name, "boolean", v)
		}
	}

	if v := table.RawGetString(luaFieldTimeout); v.Type() != lua.LTNil {
		if v.Type() != lua.LTNumber {
			return typeError(luaFieldTimeout, "number of seconds", v)
		}
		cfg.Timeout = time.Duration(float64(lua.LVAsNumber(v)) * float64(time.Second))
	}

	if v := table.RawGetString(luaFieldRetries); v.Type() != lua.LTNil {
		if v.Type() != lua.LTNumber {
			return typeError(luaFieldRetries, "number", v)
		}
		cfg.Retries = int(lua.LVAsNumber(v))
	}

	return nil
}

func typeError(field, want string, got lua.LValue) error {
	return &ParseError{
		Message: "invalid field type",
		Detail:  fmt.Sprintf("%s: expected %s, got %s", field, want, got.Type()),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
