package installer

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/engine"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/pkgmgr"
)

// packageInstall refreshes the index, installs the package and confirms an
// engine is reachable.
func (in *Installer) packageInstall(ctx context.Context, mgr *pkgmgr.Detected, res *Result) error {
	pkg := in.cfg.Package

	if err := in.do(res, StepRefreshIndex, fmt.Sprintf("refreshing %s package index", mgr.Name), func() error {
		return mgr.Refresh(ctx, in.runner)
	}); err != nil {
		return err
	}

	if err := in.do(res, StepInstallPackage, fmt.Sprintf("installing %s with %s", pkg, mgr.Name), func() error {
		return mgr.Install(ctx, in.runner, pkg)
	}); err != nil {
		return err
	}

	res.Method = MethodPackage

	path, err := engine.Locate(engine.LookPathFunc(in.lookPath), in.cfg.Target)
	if err != nil {
		if !in.cfg.Probe {
			in.logger.Warn("package installed but no engine found", "package", pkg, "error", err)
			return nil
		}
		return &StepError{Step: StepProbe, Err: err}
	}
	res.Path = path

	if !in.cfg.Probe {
		return nil
	}
	return in.do(res, StepProbe, fmt.Sprintf("probing %s", path), func() error {
		id, err := in.probe(ctx, path)
		if err != nil {
			return err
		}
		res.Identity = id
		if engine.Older(id, in.cfg.Version) {
			in.logger.Warn("package manager installed an older release", "engine", id.Name, "wanted", in.cfg.Version)
		}
		return nil
	})
}
