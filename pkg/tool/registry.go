package tool

import (
	"context"
	"crypto/sha1" //nolint:gosec // npm registries publish sha1 shasums
	"encoding/json"
	"fmt"
	"hash"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cperrin88/snm/pkg/archive"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
	snmhttp "github.com/cperrin88/snm/pkg/http"
	"github.com/cperrin88/snm/pkg/versions"
)

// packument is the subset of registry package metadata used for listings.
type packument struct {
	Versions map[string]json.RawMessage `json:"versions"`
	Time     map[string]string          `json:"time"`
}

// versionManifest is the subset of a registry version document used for verification.
type versionManifest struct {
	Version string `json:"version"`
	Dist    struct {
		Shasum  string `json:"shasum"`
		Tarball string `json:"tarball"`
	} `json:"dist"`
}

// RegistryTool installs a package manager published as an npm tarball.
type RegistryTool struct {
	name      string
	variant   Variant
	pkg       string
	registry  string
	client    snmhttp.Client
	extractor Extractor
	// lister overrides the registry listing when set.
	lister func(ctx context.Context, all bool) ([]RemoteVersion, error)
}

// NewRegistryTool creates a tool for package pkg on registry.
func NewRegistryTool(name string, variant Variant, pkg, registry string, client snmhttp.Client, extractor Extractor) *RegistryTool {
	return &RegistryTool{
		name:      name,
		variant:   variant,
		pkg:       pkg,
		registry:  strings.TrimRight(registry, "/"),
		client:    client,
		extractor: extractor,
	}
}

func (r *RegistryTool) Name() string { return r.name }

func (r *RegistryTool) Variant() Variant { return r.variant }

// NewHash returns sha1, the algorithm of dist.shasum.
func (r *RegistryTool) NewHash() hash.Hash { return sha1.New() } //nolint:gosec

// ArchiveName is "<basename>-<version>.tgz"; scoped packages drop the scope.
func (r *RegistryTool) ArchiveName(v string) string {
	return fmt.Sprintf("%s-%s.tgz", path.Base(r.pkg), versions.Trim(v))
}

func (r *RegistryTool) DownloadURL(v string) string {
	return fmt.Sprintf("%s/%s/-/%s", r.registry, r.pkg, r.ArchiveName(v))
}

// ExpectedChecksum reads dist.shasum from the version document.
func (r *RegistryTool) ExpectedChecksum(ctx context.Context, v string) (string, error) {
	var doc versionManifest
	url := fmt.Sprintf("%s/%s/%s", r.registry, r.pkg, versions.Trim(v))
	if err := r.client.GetJSON(ctx, url, &doc); err != nil {
		return "", err
	}
	if doc.Dist.Shasum == "" {
		return "", errors.Wrapf(errors.ErrChecksumNotFound, "%s@%s", r.pkg, v)
	}
	return strings.ToLower(doc.Dist.Shasum), nil
}

// Decompress unpacks the tarball without its package/ root and marks the
// declared bin entries executable.
func (r *RegistryTool) Decompress(ctx context.Context, archivePath, dest string) error {
	if err := r.extractor.ExtractAll(ctx, archivePath, dest, archive.ExtractOptions{StripComponents: 1}); err != nil {
		return err
	}
	bins, err := readBins(dest, r.pkg)
	if err != nil {
		return err
	}
	for _, rel := range bins {
		p, err := resolveBin(dest, rel)
		if err != nil {
			return err
		}
		if err := os.Chmod(p, fsutil.FileModeExec); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to mark %s executable", p)
		}
	}
	return nil
}

// BinaryPath resolves bin through the installed package.json "bin" property.
func (r *RegistryTool) BinaryPath(installDir, bin string) (string, error) {
	bins, err := readBins(installDir, r.pkg)
	if err != nil {
		return "", err
	}
	rel, ok := bins[bin]
	if !ok {
		return "", &errors.NotFoundBinError{Path: filepath.Join(installDir, "package.json"), Bin: bin}
	}
	return resolveBin(installDir, rel)
}

// ListRemote lists published versions. Unless all is set prereleases are skipped.
func (r *RegistryTool) ListRemote(ctx context.Context, all bool) ([]RemoteVersion, error) {
	if r.lister != nil {
		return r.lister(ctx, all)
	}
	var doc packument
	if err := r.client.GetJSON(ctx, r.registry+"/"+r.pkg, &doc); err != nil {
		return nil, err
	}
	out := make([]RemoteVersion, 0, len(doc.Versions))
	for v := range doc.Versions {
		if !all && versions.IsPrerelease(v) {
			continue
		}
		rv := RemoteVersion{Version: v}
		if ts, ok := doc.Time[v]; ok {
			rv.Date, _ = time.Parse(time.RFC3339, ts)
		}
		out = append(out, rv)
	}
	sortRemote(out)
	return out, nil
}

// readBins returns the bin map of the package.json in dir. A string "bin"
// is keyed by the unscoped package name.
func readBins(dir, pkg string) (map[string]string, error) {
	manifestPath := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", manifestPath)
	}
	var doc struct {
		Bin json.RawMessage `json:"bin"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrManifestParse, "%s: %v", manifestPath, err)
	}
	if len(doc.Bin) == 0 || string(doc.Bin) == "null" {
		return nil, &errors.NotFoundBinError{Path: manifestPath, Bin: path.Base(pkg)}
	}

	var single string
	if err := json.Unmarshal(doc.Bin, &single); err == nil {
		return map[string]string{path.Base(pkg): single}, nil
	}
	bins := map[string]string{}
	if err := json.Unmarshal(doc.Bin, &bins); err != nil {
		return nil, errors.Wrapf(errors.ErrManifestParse, "%s: invalid bin property: %v", manifestPath, err)
	}
	return bins, nil
}

func resolveBin(dir, rel string) (string, error) {
	p := filepath.Join(dir, filepath.FromSlash(rel))
	r, err := filepath.Rel(dir, p)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", &errors.NotFoundBinError{Path: filepath.Join(dir, "package.json"), Bin: rel}
	}
	return p, nil
}
