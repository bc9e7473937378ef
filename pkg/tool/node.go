package tool

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"path/filepath"
	"strings"
	"time"

	"github.com/cperrin88/snm/pkg/archive"
	"github.com/cperrin88/snm/pkg/errors"
	snmhttp "github.com/cperrin88/snm/pkg/http"
	"github.com/cperrin88/snm/pkg/platform"
	"github.com/cperrin88/snm/pkg/versions"
)

// nodeRelease is one entry of the dist index.json.
type nodeRelease struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Files   []string `json:"files"`
	// LTS is false for current releases and the codename for LTS ones.
	LTS any `json:"lts"`
}

func (r nodeRelease) ltsName() string {
	if s, ok := r.LTS.(string); ok {
		return s
	}
	return ""
}

// NodeTool installs Node.js from the official distribution layout.
type NodeTool struct {
	host      string
	platform  platform.Platform
	platErr   error
	client    snmhttp.Client
	extractor Extractor
}

// NewNodeTool creates the runtime tool. platErr is the platform detection
// error, reported when a platform-specific operation is attempted.
func NewNodeTool(host string, p platform.Platform, platErr error, client snmhttp.Client, extractor Extractor) *NodeTool {
	return &NodeTool{
		host:      strings.TrimRight(host, "/"),
		platform:  p,
		platErr:   platErr,
		client:    client,
		extractor: extractor,
	}
}

func (n *NodeTool) Name() string { return "node" }
func (n *NodeTool) Variant() Variant { return Node }
func (n *NodeTool) NewHash() hash.Hash { return sha256.New() }

func (n *NodeTool) ArchiveName(v string) string {
	return fmt.Sprintf("node-v%s-%s.%s", versions.Trim(v), n.platform, n.platform.ArchiveExt())
}

func (n *NodeTool) DownloadURL(v string) string {
	return fmt.Sprintf("%s/v%s/%s", n.host, versions.Trim(v), n.ArchiveName(v))
}

// ExpectedChecksum looks the archive up in the release's SHASUMS256.txt.
func (n *NodeTool) ExpectedChecksum(ctx context.Context, v string) (string, error) {
	if n.platErr != nil {
		return "", n.platErr
	}
	url := fmt.Sprintf("%s/v%s/SHASUMS256.txt", n.host, versions.Trim(v))
	body, err := n.client.GetText(ctx, url)
	if err != nil {
		return "", err
	}
	want := n.ArchiveName(v)
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && strings.TrimPrefix(fields[1], "*") == want {
			return strings.ToLower(fields[0]), nil
		}
	}
	return "", errors.Wrapf(errors.ErrChecksumNotFound, "%s in %s", want, url)
}

// Decompress unpacks the release archive, dropping its node-v<version>-<platform> root.
func (n *NodeTool) Decompress(ctx context.Context, archivePath, dest string) error {
	return n.extractor.ExtractAll(ctx, archivePath, dest, archive.ExtractOptions{StripComponents: 1})
}

// BinaryPath returns bin/<bin> on unix and <bin>.exe or <bin>.cmd on Windows.
func (n *NodeTool) BinaryPath(installDir, bin string) (string, error) {
	if n.platform.IsWindows() {
		if bin == "node" {
			return filepath.Join(installDir, "node.exe"), nil
		}
		return filepath.Join(installDir, bin+".cmd"), nil
	}
	return filepath.Join(installDir, "bin", bin), nil
}

// CheckSupported verifies v was released with a build for the current platform.
func (n *NodeTool) CheckSupported(ctx context.Context, v string) error {
	if n.platErr != nil {
		return n.platErr
	}
	releases, err := n.index(ctx)
	if err != nil {
		return err
	}
	want := "v" + versions.Trim(v)
	key := n.platform.DistFileKey()
	for _, r := range releases {
		if r.Version != want {
			continue
		}
		for _, f := range r.Files {
			if f == key {
				return nil
			}
		}
		return errors.NewUnsupportedPlatformError(n.platform.OS, n.platform.Arch)
	}
	return &errors.UnsupportedToolError{Name: n.Name(), Version: versions.Trim(v)}
}

// ListRemote lists published releases. Unless all is set only LTS releases are returned.
func (n *NodeTool) ListRemote(ctx context.Context, all bool) ([]RemoteVersion, error) {
	releases, err := n.index(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RemoteVersion, 0, len(releases))
	for _, r := range releases {
		lts := r.ltsName()
		if !all && lts == "" {
			continue
		}
		date, _ := time.Parse("2006-01-02", r.Date)
		out = append(out, RemoteVersion{Version: versions.Trim(r.Version), Date: date, LTS: lts})
	}
	sortRemote(out)
	return out, nil
}

func (n *NodeTool) index(ctx context.Context) ([]nodeRelease, error) {
	var releases []nodeRelease
	if err := n.client.GetJSON(ctx, n.host+"/index.json", &releases); err != nil {
		return nil, err
	}
	return releases, nil
}
