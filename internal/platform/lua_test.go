package platform

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

type luaCase struct {
	name string
	code string
	want lua.LValue
}

func runLuaCases(t *testing.T, L *lua.LState, tests []luaCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err != nil {
				t.Fatalf("failed to execute code: %v", err)
			}
			got := L.Get(-1)
			L.Pop(1)

			if got.Type() != tt.want.Type() {
				t.Errorf("type mismatch: got %v, want %v", got.Type(), tt.want.Type())
				return
			}
			if got.String() != tt.want.String() {
				t.Errorf("value mismatch: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInjectPlatformTable_Linux(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	info := &Info{
		OS:       "linux",
		Arch:     "amd64",
		ArchRaw:  "amd64",
		Platform: "ubuntu",
		Family:   "debian",
		Version:  "22.04",
		CPU:      CPU{ModelName: "Test CPU", Known: true, AVX2: true, POPCNT: true},
	}

	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	runLuaCases(t, L, []luaCase{
		{"os", `return platform.os`, lua.LString("linux")},
		{"arch", `return platform.arch`, lua.LString("amd64")},
		{"is_linux", `return platform.is_linux`, lua.LTrue},
		{"is_macos", `return platform.is_macos`, lua.LFalse},
		{"distro.id", `return platform.distro.id`, lua.LString("ubuntu")},
		{"distro.version", `return platform.distro.version`, lua.LString("22.04")},
		{"is_debian_family", `return platform.is_debian_family`, lua.LTrue},
		{"is_rhel_family", `return platform.is_rhel_family`, lua.LFalse},
		{"release_arch", `return platform.release_arch`, lua.LString("x86-64")},
		{"cpu.model", `return platform.cpu.model`, lua.LString("Test CPU")},
		{"cpu.avx2", `return platform.cpu.avx2`, lua.LTrue},
		{"cpu.bmi2", `return platform.cpu.bmi2`, lua.LFalse},
		{"suggested_asset", `return platform.suggested_asset`, lua.LString("stockfish-ubuntu-x86-64-avx2.tar")},
	})
}

func TestInjectPlatformTable_Unsupported(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "freebsd", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	runLuaCases(t, L, []luaCase{
		{"distro is nil", `return platform.distro`, lua.LNil},
		{"suggested_asset is nil", `return platform.suggested_asset`, lua.LNil},
		{"fallback idiom", `return platform.suggested_asset or "custom.tar"`, lua.LString("custom.tar")},
	})
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	tests := []struct {
		name string
		code string
	}{
		{"modify os", `platform.os = "windows"`},
		{"add new field", `platform.new_field = "value"`},
		{"modify cpu flag", `platform.cpu.avx2 = true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err == nil {
				t.Error("expected error when modifying read-only table, got nil")
			}
		})
	}
}

func TestPlatformTable_WhenHelper(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "linux", Arch: "arm64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	runLuaCases(t, L, []luaCase{
		{"when true returns value", `return platform.when(true, "x")`, lua.LString("x")},
		{"when false returns nil", `return platform.when(false, "x")`, lua.LNil},
		{"when with platform boolean", `return platform.when(platform.is_arm64, "stockfish-android-armv8.tar")`, lua.LString("stockfish-android-armv8.tar")},
	})
}
