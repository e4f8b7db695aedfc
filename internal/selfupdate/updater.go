package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	binaryName = "exambank"

	// schemaAsset holds the database schema version the release binary
	// was built for, e.g. "v1.1.0".
	schemaAsset    = "schema.txt"
	checksumsAsset = "checksums.txt"

	maxDownload = 256 << 20
)

// Stages reported through UpdateProgress, in order.
const (
	StageCheck    = "check"
	StageDownload = "download"
	StageVerify   = "verify"
	StageSchema   = "schema"
	StageExtract  = "extract"
	StageApply    = "apply"
	StageDone     = "done"
)

var (
	ErrDevBuild           = errors.New("cannot update a development build")
	ErrAlreadyLatest      = errors.New("already running the latest version")
	ErrChecksum           = errors.New("checksum verification failed")
	ErrIncompatibleSchema = errors.New("release cannot open the current database")
)

// UpdateInput describes the update to perform.
type UpdateInput struct {
	CurrentVersion string

	// TargetVersion installs a specific tag instead of the latest release.
	TargetVersion string

	// CheckSchema receives the schema version the release declares in
	// schema.txt. A non-nil error stops the update before anything is
	// written. Releases without schema.txt skip the check.
	CheckSchema func(schema string) error
}

// UpdateProgress is reported at the start of each stage.
type UpdateProgress struct {
	Stage   string
	Message string
}

type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

// Update installs the latest (or requested) release over the running
// binary. The archive is checked against checksums.txt and the release's
// schema against in.CheckSchema before the binary is replaced.
func (c *Checker) Update(ctx context.Context, in *UpdateInput, progress func(UpdateProgress)) error {
	if in.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}
	report := func(stage, msg string) {
		c.log.Info("self-update", zap.String("stage", stage), zap.String("detail", msg))
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: msg})
		}
	}

	tag := in.TargetVersion
	if tag == "" {
		report(StageCheck, "Checking for latest version...")
		res, err := c.Check(ctx, &CheckInput{Version: in.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	asset, err := assetNameFor(c.goos, c.goarch)
	if err != nil {
		return err
	}

	report(StageDownload, fmt.Sprintf("Downloading %s...", tag))
	archive, err := c.fetch(ctx, c.releaseURL(tag, asset))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report(StageVerify, "Verifying checksum...")
	sums, err := c.fetch(ctx, c.releaseURL(tag, checksumsAsset))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, err := lookupChecksum(sums, asset)
	if err != nil {
		return err
	}
	if err := verifySHA256(archive, want); err != nil {
		return err
	}

	if in.CheckSchema != nil {
		report(StageSchema, "Checking database compatibility...")
		schema, err := c.releaseSchema(ctx, tag)
		if err != nil {
			return err
		}
		if schema == "" {
			c.log.Warn("release declares no schema version", zap.String("tag", tag))
		} else if err := in.CheckSchema(schema); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrIncompatibleSchema, tag, err)
		}
	}

	report(StageExtract, "Extracting binary...")
	bin, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report(StageApply, "Applying update...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := install(bin, target); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	report(StageDone, fmt.Sprintf("Updated to %s", tag))
	return nil
}

func (c *Checker) releaseURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, file)
}

// releaseSchema returns the trimmed contents of schema.txt, or "" when
// the release does not publish one.
func (c *Checker) releaseSchema(ctx context.Context, tag string) (string, error) {
	data, err := c.fetch(ctx, c.releaseURL(tag, schemaAsset))
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("download schema version: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// fetch downloads url, refusing bodies larger than maxDownload.
func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, url: url}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, maxDownload)
	}
	c.log.Debug("downloaded", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

func assetNameFor(goos, goarch string) (string, error) {
	arch := map[string]string{"amd64": "x86_64", "arm64": "arm64", "386": "i386"}[goarch]
	switch goos {
	case "darwin":
		return binaryName + "_Darwin_all.tar.gz", nil
	case "linux", "windows":
		if arch == "" {
			return "", fmt.Errorf("unsupported architecture: %s", goarch)
		}
		if goos == "windows" {
			return fmt.Sprintf("%s_Windows_%s.zip", binaryName, arch), nil
		}
		return fmt.Sprintf("%s_Linux_%s.tar.gz", binaryName, arch), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// lookupChecksum finds the hex digest for asset in sha256sum output.
// Both text ("hash  name") and binary ("hash *name") lines are accepted.
func lookupChecksum(sums []byte, asset string) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(sums))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) != 2 {
			continue
		}
		if strings.TrimPrefix(f[1], "*") == asset {
			return strings.ToLower(f[0]), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", checksumsAsset, err)
	}
	return "", fmt.Errorf("no checksum for %s in %s", asset, checksumsAsset)
}

func verifySHA256(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != strings.ToLower(wantHex) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

// extractBinary pulls the exambank executable out of a release archive.
// Its position inside the archive does not matter.
func extractBinary(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
		if err != nil {
			return nil, fmt.Errorf("open zip: %w", err)
		}
		return findFile(zr, binaryName+".exe")
	}

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("binary %q not found in archive", binaryName)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == binaryName {
			return io.ReadAll(io.LimitReader(tr, maxDownload))
		}
	}
}

// findFile returns the first regular file in fsys whose base name is name.
func findFile(fsys fs.FS, name string) ([]byte, error) {
	var found string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && d.Name() == name {
			found = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read zip: %w", err)
	}
	if found == "" {
		return nil, fmt.Errorf("binary %q not found in archive", name)
	}
	return fs.ReadFile(fsys, found)
}

// install replaces target with bin, keeping target's permissions. The
// new binary is fully written and synced next to target before an
// atomic rename, so an interrupted update leaves the old binary intact.
func install(bin []byte, target string) (err error) {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(bin); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
