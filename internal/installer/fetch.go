package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/sfinstall/internal/engine"
	"github.com/ZebulonRouseFrantzich/sfinstall/internal/release"
)

// fetchInstall downloads the release archive and installs its engine
// executable at the target. The archive, any signature and the staging
// directory are removed on every return path.
func (in *Installer) fetchInstall(ctx context.Context, res *Result) (err error) {
	target := in.cfg.Target
	dir := filepath.Dir(target)
	rel := release.Release{
		BaseURL: in.cfg.BaseURL,
		Version: in.cfg.Version,
		Asset:   in.cfg.Asset,
		Member:  in.cfg.Member,
	}

	var lock *Lock
	if err := in.do(res, StepLock, fmt.Sprintf("locking %s", dir), func() error {
		var lockErr error
		lock, lockErr = AcquireLock(ctx, dir)
		return lockErr
	}); err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			in.logger.Warn("release lock", "error", releaseErr)
		}
	}()

	present := false
	if err := in.do(res, StepCheckExisting, fmt.Sprintf("checking %s", target), func() error {
		var checkErr error
		present, checkErr = in.checkExisting(ctx, target, res)
		return checkErr
	}); err != nil {
		return err
	}
	if present {
		return nil
	}

	archive := filepath.Join(dir, rel.Asset)
	signature := archive + ".sig"
	var staging string

	cleaned := false
	cleanup := func() error {
		if cleaned {
			return nil
		}
		cleaned = true
		var errs []error
		for _, p := range []string{archive, archive + ".tmp", signature, staging} {
			if p == "" {
				continue
			}
			if rmErr := os.RemoveAll(p); rmErr != nil {
				errs = append(errs, rmErr)
			}
		}
		return errors.Join(errs...)
	}
	defer func() {
		if cleanupErr := cleanup(); cleanupErr != nil && err == nil {
			err = &StepError{Step: StepCleanup, Err: cleanupErr}
		}
	}()

	url := rel.URL()
	if err := in.do(res, StepDownload, fmt.Sprintf("downloading %s", url), func() error {
		return in.downloader.DownloadToFile(ctx, url, archive)
	}); err != nil {
		return err
	}

	if err := in.do(res, StepVerify, fmt.Sprintf("verifying %s", rel.Asset), func() error {
		return in.verify(ctx, archive, signature)
	}); err != nil {
		return err
	}

	var extracted string
	if err := in.do(res, StepExtract, fmt.Sprintf("extracting %s", rel.MemberName()), func() error {
		var extractErr error
		staging, extractErr = os.MkdirTemp(dir, ".sfinstall-stage-")
		if extractErr != nil {
			return fmt.Errorf("create staging dir: %w", extractErr)
		}
		extracted, extractErr = in.extractor.ExtractMember(archive, rel.MemberName(), staging)
		return extractErr
	}); err != nil {
		return err
	}

	if err := in.do(res, StepRelocate, fmt.Sprintf("moving engine to %s", target), func() error {
		if renameErr := os.Rename(extracted, target); renameErr != nil {
			return fmt.Errorf("rename %s: %w", filepath.Base(extracted), renameErr)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := in.do(res, StepChmod, fmt.Sprintf("marking %s executable", target), func() error {
		return release.SetExecutable(target)
	}); err != nil {
		return err
	}

	if err := in.do(res, StepCleanup, "removing download artifacts", cleanup); err != nil {
		return err
	}

	res.Method = MethodFetch
	res.Path = target

	if !in.cfg.Probe {
		return nil
	}
	return in.do(res, StepProbe, fmt.Sprintf("probing %s", target), func() error {
		id, probeErr := in.probe(ctx, target)
		if probeErr != nil {
			return probeErr
		}
		res.Identity = id
		return nil
	})
}

// checkExisting reports whether target already holds the configured
// release. Without probing any executable file counts.
func (in *Installer) checkExisting(ctx context.Context, target string, res *Result) (bool, error) {
	info, err := os.Stat(target)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat target: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("target %s is a directory", target)
	}
	if !engine.IsExecutable(target) {
		in.printer.Detail("replacing non-executable %s", target)
		return false, nil
	}

	if !in.cfg.Probe {
		in.printer.Detail("%s already installed", target)
		res.Method = MethodPresent
		res.Path = target
		return true, nil
	}

	id, err := in.probe(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		in.logger.Info("existing engine failed probe, replacing", "path", target, "error", err)
		in.printer.Detail("replacing unusable %s", target)
		return false, nil
	}
	if !engine.Matches(id, in.cfg.Version) {
		in.logger.Info("existing engine is a different release, replacing", "engine", id.Name, "wanted", in.cfg.Version)
		in.printer.Detail("replacing %s", id.Name)
		return false, nil
	}

	in.printer.Detail("%s already installed", id.Name)
	res.Method = MethodPresent
	res.Path = target
	res.Identity = id
	return true, nil
}

// verify checks the configured digest and signature. With neither set the
// archive is accepted as downloaded.
func (in *Installer) verify(ctx context.Context, archive, signature string) error {
	verified := false

	if in.cfg.SHA256 != "" {
		if err := release.VerifySHA256(archive, in.cfg.SHA256); err != nil {
			return err
		}
		in.printer.Detail("sha256 ok")
		verified = true
	}

	if in.cfg.SignatureURL != "" && in.cfg.Keyring != "" {
		if err := in.downloader.DownloadToFile(ctx, in.cfg.SignatureURL, signature); err != nil {
			return fmt.Errorf("download signature: %w", err)
		}
		if err := release.VerifySignature(archive, signature, in.cfg.Keyring); err != nil {
			return err
		}
		in.printer.Detail("signature ok")
		verified = true
	}

	if !verified {
		in.logger.Info("no checksum or signature configured, skipping verification")
		in.printer.Detail("no checksum or signature configured")
	}
	return nil
}
