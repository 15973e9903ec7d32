package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Generator renders a Config as a Lua file the Parser reads back.
type Generator struct {
	indent string
	now    func() time.Time
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
		now:    time.Now,
	}
}

// Generate renders config. When suggestAsset is true the asset line defers
// to the host's suggested asset and falls back to config.Asset.
func (g *Generator) Generate(config *Config, suggestAsset bool) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer

	buf.WriteString("-- sfinstall configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(g.now().UTC().Format(time.RFC3339))
	buf.WriteString("\n")
	buf.WriteString("-- The read-only `platform` table describes this host.\n\n")

	buf.WriteString(luaGlobalStockfish + " = {\n")

	g.writeComment(&buf, "release to fetch when no package manager is available")
	g.writeString(&buf, luaFieldVersion, config.Version)
	if suggestAsset {
		g.writeRaw(&buf, luaFieldAsset, "platform.suggested_asset or "+quoteLuaString(config.Asset))
	} else {
		g.writeString(&buf, luaFieldAsset, config.Asset)
	}
	if config.Member != "" {
		g.writeString(&buf, luaFieldMember, config.Member)
	}
	g.writeString(&buf, luaFieldBaseURL, config.BaseURL)
	buf.WriteString("\n")

	g.writeComment(&buf, `package manager: a name, "auto" or "none"`)
	g.writeString(&buf, luaFieldPackageManager, config.PackageManager)
	g.writeString(&buf, luaFieldPackage, config.Package)
	g.writeRaw(&buf, luaFieldFallbackOnPkgFailure, strconv.FormatBool(config.FallbackOnPackageFailure))
	buf.WriteString("\n")

	g.writeComment(&buf, "fetch path settings")
	g.writeString(&buf, luaFieldTarget, config.Target)
	g.writeRaw(&buf, luaFieldTimeout, formatSeconds(config.Timeout))
	g.writeRaw(&buf, luaFieldRetries, strconv.Itoa(config.Retries))
	g.writeString(&buf, luaFieldSHA256, config.SHA256)
	if config.SignatureURL != "" {
		g.writeString(&buf, luaFieldSignatureURL, config.SignatureURL)
		g.writeString(&buf, luaFieldKeyring, config.Keyring)
	}
	buf.WriteString("\n")

	g.writeComment(&buf, "run a UCI handshake after installing")
	g.writeRaw(&buf, luaFieldProbe, strconv.FormatBool(config.Probe))

	buf.WriteString("}\n")

	return buf.String(), nil
}

func (g *Generator) writeComment(buf *bytes.Buffer, text string) {
	buf.WriteString(g.indent)
	buf.WriteString("-- ")
	buf.WriteString(text)
	buf.WriteString("\n")
}

func (g *Generator) writeString(buf *bytes.Buffer, field, value string) {
	g.writeRaw(buf, field, quoteLuaString(value))
}

func (g *Generator) writeRaw(buf *bytes.Buffer, field, expr string) {
	buf.WriteString(g.indent)
	buf.WriteString(field)
	buf.WriteString(" = ")
	buf.WriteString(expr)
	buf.WriteString(",\n")
}

// formatSeconds renders d as a Lua number of seconds.
func formatSeconds(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d", d/time.Second)
	}
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// quoteLuaString quotes a string for Lua, handling special characters.
func quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
