package installer

import "fmt"

// Step names one checked action of an install.
type Step string

const (
	StepRefreshIndex   Step = "refresh-index"
	StepInstallPackage Step = "install-package"
	StepLock           Step = "lock"
	StepCheckExisting  Step = "check-existing"
	StepDownload       Step = "download"
	StepVerify         Step = "verify"
	StepExtract        Step = "extract"
	StepRelocate       Step = "relocate"
	StepChmod          Step = "chmod"
	StepCleanup        Step = "cleanup"
	StepProbe          Step = "probe"
)

// StepError reports which step of an install failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
