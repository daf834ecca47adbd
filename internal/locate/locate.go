// Package locate turns a declared patch location into a readable file,
// downloading remote patches to a temporary file when needed.
package locate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"patchstatus/internal/runner"
	"patchstatus/internal/tools"
)

// DefaultTools is the external download tool preference order.
var DefaultTools = []string{"wget", "curl"}

// DefaultTimeout bounds how long a download waits for a connection.
const DefaultTimeout = 30 * time.Second

// RetrievalError reports a remote patch that every download path failed to
// retrieve.
type RetrievalError struct {
	URL string
	Err error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("the URL %s could not be downloaded: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("the URL %s could not be downloaded", e.URL)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Located is a patch file ready to be read. Close removes any temporary
// download and is safe to call more than once.
type Located struct {
	Path   string
	Remote bool

	cleanup func() error
}

func (p *Located) Close() error {
	if p == nil || p.cleanup == nil {
		return nil
	}
	fn := p.cleanup
	p.cleanup = nil
	return fn()
}

// Locator resolves patch locations.
type Locator struct {
	// Base is the directory relative locations are joined to.
	Base     string
	Runner   runner.Runner
	Tools    []string
	Timeout  time.Duration
	User     string
	Password string
	// TempDir holds downloads; empty means os.TempDir().
	TempDir    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// IsURL reports whether s is an absolute URL with a scheme and host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Locate returns a local file for location. Local paths are not checked for
// existence; a missing file surfaces later when patch cannot read it.
func (l *Locator) Locate(ctx context.Context, location string) (*Located, error) {
	if !IsURL(location) {
		path := location
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.Base, filepath.FromSlash(location))
		}
		return &Located{Path: path}, nil
	}
	return l.download(ctx, location)
}

func (l *Locator) download(ctx context.Context, rawURL string) (*Located, error) {
	tmp, err := os.CreateTemp(l.TempDir, "patchstatus-*.patch")
	if err != nil {
		return nil, fmt.Errorf("create download temp file: %w", err)
	}
	dest := tmp.Name()
	tmp.Close()

	remove := func() error {
		if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	var lastErr error
	for _, name := range l.tools() {
		if err := l.runTool(ctx, name, rawURL, dest); err != nil {
			l.logf("download %s via %s: %v", rawURL, name, err)
			lastErr = err
			continue
		}
		if nonEmpty(dest) {
			l.logf("download %s via %s -> %s", rawURL, name, dest)
			return &Located{Path: dest, Remote: true, cleanup: remove}, nil
		}
		lastErr = fmt.Errorf("%s produced an empty file", name)
	}

	if err := l.fetch(ctx, rawURL, dest); err != nil {
		l.logf("download %s in-process: %v", rawURL, err)
		lastErr = err
	} else if nonEmpty(dest) {
		l.logf("download %s in-process -> %s", rawURL, dest)
		return &Located{Path: dest, Remote: true, cleanup: remove}, nil
	}

	_ = remove()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, &RetrievalError{URL: rawURL, Err: lastErr}
}

func (l *Locator) runTool(ctx context.Context, name, rawURL, dest string) error {
	path, err := tools.Lookup(name)
	if err != nil {
		return err
	}
	if err := os.Truncate(dest, 0); err != nil {
		return fmt.Errorf("reset download file: %w", err)
	}
	args, err := ToolArgs(name, l.timeout(), l.User, l.Password, dest, rawURL)
	if err != nil {
		return err
	}
	_, err = l.runner().Run(ctx, path, args, runner.Options{})
	return err
}

// ToolArgs builds the argument list for an external download tool. name may
// be a bare tool name or a path to one.
func ToolArgs(name string, timeout time.Duration, user, password, dest, rawURL string) ([]string, error) {
	secs := strconv.Itoa(int(timeout / time.Second))
	switch strings.TrimSuffix(filepath.Base(name), ".exe") {
	case "wget":
		args := []string{"-q", "--timeout=" + secs}
		if user != "" && password != "" {
			args = append(args, "--user="+user, "--password="+password)
		}
		return append(args, "-O", dest, rawURL), nil
	case "curl":
		args := []string{"-s", "-f", "-L", "--connect-timeout", secs}
		if user != "" && password != "" {
			args = append(args, "--user", user+":"+password)
		}
		return append(args, "-o", dest, rawURL), nil
	default:
		return nil, fmt.Errorf("unsupported download tool %q", name)
	}
}

func (l *Locator) fetch(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if l.User != "" && l.Password != "" {
		req.SetBasicAuth(l.User, l.Password)
	}

	resp, err := l.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open download file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("write download file: %w", err)
	}
	return out.Close()
}

func (l *Locator) client() *http.Client {
	if l.HTTPClient != nil {
		return l.HTTPClient
	}
	return &http.Client{
		Timeout: l.timeout(),
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: l.timeout(),
		},
	}
}

func (l *Locator) tools() []string {
	if l.Tools == nil {
		return DefaultTools
	}
	return l.Tools
}

func (l *Locator) timeout() time.Duration {
	if l.Timeout <= 0 {
		return DefaultTimeout
	}
	return l.Timeout
}

func (l *Locator) runner() runner.Runner {
	if l.Runner == nil {
		return runner.CmdRunner{}
	}
	return l.Runner
}

func (l *Locator) logf(format string, args ...any) {
	if l.Logger == nil {
		return
	}
	l.Logger.Printf(format, args...)
}

func nonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
