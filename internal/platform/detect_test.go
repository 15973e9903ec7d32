package platform

import (
	"context"
	"runtime"
	"testing"
)

// MockDetector is a test implementation of Detector.
type MockDetector struct {
	info *Info
	err  error
}

// NewMockDetector creates a mock detector with specified return values.
func NewMockDetector(info *Info, err error) Detector {
	return &MockDetector{info: info, err: err}
}

// Detect returns the pre-configured info and error.
func (m *MockDetector) Detect(ctx context.Context) (*Info, error) {
	return m.info, m.err
}

func TestRealDetector_Detect(t *testing.T) {
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" {
		t.Skipf("unsupported test architecture %s", runtime.GOARCH)
	}

	info, err := NewDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}
	if info.Arch != "amd64" && info.Arch != "arm64" {
		t.Errorf("Arch = %v, want amd64 or arm64", info.Arch)
	}
	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %v, want %v", info.ArchRaw, runtime.GOARCH)
	}

	if info.Platform != "" && info.Family == "" {
		t.Error("Family should be set when Platform is set")
	}
	if runtime.GOOS != "linux" && info.Platform != "" {
		t.Errorf("Platform should be empty on non-Linux, got %v", info.Platform)
	}
}

func TestCPUFromFlags(t *testing.T) {
	tests := []struct {
		name  string
		model string
		flags []string
		want  CPU
	}{
		{
			name:  "modern x86",
			model: " AMD Ryzen 7 5800X ",
			flags: []string{"fpu", "popcnt", "avx2", "bmi2"},
			want:  CPU{ModelName: "AMD Ryzen 7 5800X", AVX2: true, BMI2: true, POPCNT: true, Known: true},
		},
		{
			name:  "old x86",
			flags: []string{"fpu", "sse4_1", "POPCNT"},
			want:  CPU{POPCNT: true, Known: true},
		},
		{
			name: "no flags",
			want: CPU{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cpuFromFlags(tt.model, tt.flags)
			if got != tt.want {
				t.Errorf("cpuFromFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoDistro(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		want *Distro
	}{
		{
			name: "linux with distro",
			info: &Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: "debian", Version: "22.04"},
			want: &Distro{ID: "ubuntu", Family: "debian", Version: "22.04"},
		},
		{name: "linux without distro", info: &Info{OS: "linux", Arch: "amd64"}},
		{name: "macos", info: &Info{OS: "darwin", Arch: "arm64", Platform: "darwin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.info.Distro()
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("Distro() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoPredicates(t *testing.T) {
	debian := &Info{OS: "linux", Arch: "amd64", Family: FamilyDebian}
	if !debian.IsLinux() || !debian.IsAMD64() || !debian.InFamily(FamilyDebian) {
		t.Errorf("debian amd64 predicates wrong: %+v", debian)
	}
	if debian.InFamily(FamilyRHEL) || debian.IsMacOS() {
		t.Errorf("debian amd64 matched a foreign predicate: %+v", debian)
	}

	mac := &Info{OS: "darwin", Arch: "arm64", Family: FamilyDebian}
	if !mac.IsAppleSilicon() || !mac.IsARM64() {
		t.Errorf("apple silicon predicates wrong: %+v", mac)
	}
	if mac.InFamily(FamilyDebian) {
		t.Error("family must not match off linux")
	}

	win := &Info{OS: "windows", Arch: "amd64"}
	if !win.IsWindows() || win.IsLinux() {
		t.Errorf("windows predicates wrong: %+v", win)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		info *Info
		want string
	}{
		{&Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: FamilyDebian, Version: "22.04"}, "linux/amd64 ubuntu 22.04"},
		{&Info{OS: "darwin", Arch: "arm64"}, "darwin/arm64"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMockDetector(t *testing.T) {
	expectedInfo := &Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: "debian"}

	info, err := NewMockDetector(expectedInfo, nil).Detect(context.Background())
	if err != nil {
		t.Fatalf("MockDetector.Detect() error = %v", err)
	}
	if info != expectedInfo {
		t.Errorf("MockDetector.Detect() = %+v, want %+v", info, expectedInfo)
	}
}
