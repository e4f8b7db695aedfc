package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const darwinAsset = "exambank_Darwin_all.tar.gz"

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"darwin", "arm64", "exambank_Darwin_all.tar.gz"},
		{"linux", "amd64", "exambank_Linux_x86_64.tar.gz"},
		{"linux", "386", "exambank_Linux_i386.tar.gz"},
		{"windows", "arm64", "exambank_Windows_arm64.zip"},
		{"linux", "riscv64", ""},
		{"plan9", "amd64", ""},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.want == "" {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupChecksum(t *testing.T) {
	sums := []byte("AB12  exambank_Linux_x86_64.tar.gz\n" +
		"malformed\n" +
		"cd34 *exambank_Darwin_all.tar.gz\n")

	got, err := lookupChecksum(sums, "exambank_Linux_x86_64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "ab12", got)

	got, err = lookupChecksum(sums, darwinAsset)
	require.NoError(t, err)
	assert.Equal(t, "cd34", got, "binary-mode line")

	_, err = lookupChecksum(sums, "exambank_Windows_arm64.zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no checksum")
}

func TestVerifySHA256(t *testing.T) {
	data := []byte("exam blueprint")
	sum := sha256.Sum256(data)
	hexSum := hex.EncodeToString(sum[:])

	assert.NoError(t, verifySHA256(data, hexSum))
	assert.NoError(t, verifySHA256(data, fmt.Sprintf("%X", sum[:])), "digest case is ignored")
	assert.ErrorIs(t, verifySHA256([]byte("tampered"), hexSum), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	bin := []byte("#!/bin/sh\necho exambank")

	t.Run("nested in tar.gz", func(t *testing.T) {
		got, err := extractBinary(tarGz(t, "exambank_1.2.0/exambank", bin), darwinAsset)
		require.NoError(t, err)
		assert.Equal(t, bin, got)
	})

	t.Run("zip", func(t *testing.T) {
		got, err := extractBinary(zipArchive(t, "bin/exambank.exe", bin), "exambank_Windows_x86_64.zip")
		require.NoError(t, err)
		assert.Equal(t, bin, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := extractBinary(tarGz(t, "README.md", bin), darwinAsset)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")

		_, err = extractBinary(zipArchive(t, "exambank", bin), "exambank_Windows_x86_64.zip")
		require.Error(t, err)
	})
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "exambank")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o750))

	require.NoError(t, install([]byte("new build"), target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new build", string(got))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestInstall_MissingTarget(t *testing.T) {
	dir := t.TempDir()
	err := install([]byte("x"), filepath.Join(dir, "exambank"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// published serves one release tag. Empty fields answer 404.
type published struct {
	tag       string
	archive   []byte
	checksums string
	schema    string
}

func (r published) server(t *testing.T) *httptest.Server {
	t.Helper()
	dl := "/abhisek/exambank/releases/download/" + r.tag + "/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body []byte
		switch req.URL.Path {
		case "/repos/abhisek/exambank/releases/latest":
			body = []byte(fmt.Sprintf(`{"tag_name":%q,"html_url":"https://example.com/%s"}`, r.tag, r.tag))
		case dl + darwinAsset:
			body = r.archive
		case dl + "checksums.txt":
			body = []byte(r.checksums)
		case dl + "schema.txt":
			body = []byte(r.schema)
		}
		if len(body) == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRelease(t *testing.T, tag string, bin []byte) published {
	t.Helper()
	archive := tarGz(t, "exambank", bin)
	sum := sha256.Sum256(archive)
	return published{
		tag:       tag,
		archive:   archive,
		checksums: hex.EncodeToString(sum[:]) + "  " + darwinAsset + "\n",
		schema:    "v1.1.0\n",
	}
}

func testChecker(srv *httptest.Server, execPath string, log *zap.Logger) *Checker {
	return NewChecker(
		WithBaseURL(srv.URL),
		WithDownloadBaseURL(srv.URL),
		WithLogger(log),
		withPlatform("darwin", "arm64"),
		withExecPath(func() (string, error) { return execPath, nil }),
	)
}

func oldBinary(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "exambank")
	require.NoError(t, os.WriteFile(p, []byte("v1.0.0 build"), 0o755))
	return p
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("installs latest and logs every stage", func(t *testing.T) {
		exe := oldBinary(t)
		srv := newRelease(t, "v1.1.0", []byte("v1.1.0 build")).server(t)
		core, logs := observer.New(zap.InfoLevel)

		var schemas, stages []string
		err := testChecker(srv, exe, zap.New(core)).Update(ctx, &UpdateInput{
			CurrentVersion: "v1.0.0",
			CheckSchema: func(s string) error {
				schemas = append(schemas, s)
				return nil
			},
		}, func(p UpdateProgress) { stages = append(stages, p.Stage) })
		require.NoError(t, err)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, "v1.1.0 build", string(got))
		assert.Equal(t, []string{"v1.1.0"}, schemas)

		want := []string{StageCheck, StageDownload, StageVerify, StageSchema, StageExtract, StageApply, StageDone}
		assert.Equal(t, want, stages)
		var logged []string
		for _, e := range logs.FilterMessage("self-update").All() {
			logged = append(logged, e.ContextMap()["stage"].(string))
		}
		assert.Equal(t, want, logged)
	})

	t.Run("refuses release the database cannot use", func(t *testing.T) {
		exe := oldBinary(t)
		srv := newRelease(t, "v1.1.0", []byte("v1.1.0 build")).server(t)

		err := testChecker(srv, exe, zap.NewNop()).Update(ctx, &UpdateInput{
			CurrentVersion: "v1.0.0",
			CheckSchema:    func(string) error { return errors.New("database schema v1.3.0 is newer") },
		}, nil)
		assert.ErrorIs(t, err, ErrIncompatibleSchema)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, "v1.0.0 build", string(got), "binary replaced despite schema refusal")
	})

	t.Run("release without schema.txt", func(t *testing.T) {
		exe := oldBinary(t)
		rel := newRelease(t, "v1.1.0", []byte("v1.1.0 build"))
		rel.schema = ""
		core, logs := observer.New(zap.WarnLevel)

		called := false
		err := testChecker(rel.server(t), exe, zap.New(core)).Update(ctx, &UpdateInput{
			CurrentVersion: "v1.0.0",
			CheckSchema:    func(string) error { called = true; return nil },
		}, nil)
		require.NoError(t, err)
		assert.False(t, called)
		assert.Equal(t, 1, logs.FilterMessage("release declares no schema version").Len())
	})

	t.Run("explicit target skips the latest lookup", func(t *testing.T) {
		exe := oldBinary(t)
		srv := newRelease(t, "v0.9.0", []byte("v0.9.0 build")).server(t)

		err := testChecker(srv, exe, zap.NewNop()).Update(ctx, &UpdateInput{
			CurrentVersion: "v1.0.0",
			TargetVersion:  "v0.9.0",
		}, nil)
		require.NoError(t, err)
		got, _ := os.ReadFile(exe)
		assert.Equal(t, "v0.9.0 build", string(got))
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(ctx, &UpdateInput{CurrentVersion: "(devel)"}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := newRelease(t, "v1.0.0", nil).server(t)
		err := testChecker(srv, oldBinary(t), zap.NewNop()).Update(ctx, &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		exe := oldBinary(t)
		rel := newRelease(t, "v1.1.0", []byte("v1.1.0 build"))
		rel.checksums = "0000  " + darwinAsset + "\n"

		err := testChecker(rel.server(t), exe, zap.NewNop()).Update(ctx, &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
		got, _ := os.ReadFile(exe)
		assert.Equal(t, "v1.0.0 build", string(got))
	})

	t.Run("missing archive", func(t *testing.T) {
		rel := newRelease(t, "v1.1.0", []byte("x"))
		rel.archive = nil

		err := testChecker(rel.server(t), oldBinary(t), zap.NewNop()).Update(ctx, &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
		assert.Contains(t, err.Error(), "HTTP 404")
	})
}

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zipArchive(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
